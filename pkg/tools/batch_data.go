package tools

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config bounds the batch processor: concurrent handler invocations, batch
// size before an early flush, and the flush interval.
type Config struct {
	MaxThread                int
	CacheNum                 int
	TimeIntervalMilliSeconds int64
}

func GetDefaultConfig() *Config {
	return &Config{
		MaxThread:                100,
		CacheNum:                 200,
		TimeIntervalMilliSeconds: 500,
	}
}

// Processor collects messages and hands them to the handler in batches on a
// background goroutine. Senders never block on the handler; when the inbox is
// full the message is dropped with a log line. Used for fire-and-forget writes
// whose failure must not affect the request path.
type Processor struct {
	Name        string
	config      *Config
	messageChan chan interface{}
	threadChan  chan struct{}
	doneChan    chan struct{}
	pending     []interface{}
	ctx         context.Context
	cancelFunc  context.CancelFunc
	messageWg   sync.WaitGroup
	serviceLock sync.Mutex
	isOpen      bool
	handler     func(batchData []interface{}) error
}

func NewProcessor(name string, config *Config, handler func(batchData []interface{}) error) *Processor {
	if config == nil {
		config = GetDefaultConfig()
	}
	return &Processor{
		Name:        name,
		config:      config,
		handler:     handler,
		messageChan: make(chan interface{}, 1024),
	}
}

// Enqueue submits one message without blocking. Returns false if dropped.
func (p *Processor) Enqueue(msg interface{}) bool {
	select {
	case p.messageChan <- msg:
		return true
	default:
		logrus.Errorf("batch process: %s inbox full, message dropped", p.Name)
		return false
	}
}

func (p *Processor) Start() {
	p.serviceLock.Lock()
	defer p.serviceLock.Unlock()

	if p.isOpen {
		return
	}

	p.threadChan = make(chan struct{}, p.config.MaxThread)
	p.doneChan = make(chan struct{})
	p.ctx, p.cancelFunc = context.WithCancel(context.Background())

	go p.run()

	p.isOpen = true
	logrus.Infof("batch process: %s started", p.Name)
}

// Stop flushes pending messages and waits for in-flight handlers.
func (p *Processor) Stop() {
	p.serviceLock.Lock()
	defer p.serviceLock.Unlock()

	if !p.isOpen {
		return
	}

	p.cancelFunc()
	// the run loop must finish its final flush before waiting on handlers
	<-p.doneChan
	p.messageWg.Wait()
	p.isOpen = false
	logrus.Infof("batch process: %s stopped", p.Name)
}

func (p *Processor) run() {
	defer close(p.doneChan)

	interval := time.Duration(p.config.TimeIntervalMilliSeconds) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			p.drain()
			p.flush()
			return
		case msg := <-p.messageChan:
			p.pending = append(p.pending, msg)
			if len(p.pending) >= p.config.CacheNum {
				p.flush()
			}
		case <-ticker.C:
			p.flush()
		}
	}
}

func (p *Processor) drain() {
	for {
		select {
		case msg := <-p.messageChan:
			p.pending = append(p.pending, msg)
		default:
			return
		}
	}
}

func (p *Processor) flush() {
	if len(p.pending) == 0 {
		return
	}
	batch := p.pending
	p.pending = nil

	p.threadChan <- struct{}{}
	p.messageWg.Add(1)
	go func(batchData []interface{}) {
		defer func() {
			p.messageWg.Done()
			<-p.threadChan
		}()

		if err := p.handler(batchData); err != nil {
			logrus.Errorf("batch process: %s batch handle err: %s", p.Name, err.Error())
		}
	}(batch)
}
