package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/config"
	"github.com/CUknot/rag-model/controller"
	"github.com/CUknot/rag-model/pkg/projectlog"
	"github.com/CUknot/rag-model/router"
	servicefactory "github.com/CUknot/rag-model/service/factory"
)

func main() {
	defer func() {
		if serviceErr := recover(); serviceErr != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)
			log.Println("The service exits abnormally, error message:【", serviceErr, "】")
			log.Println("Stack info: ")
			fmt.Printf("==> %s\n", string(buf[:n]))
			os.Exit(1)
		}
	}()

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	projectlog.Init(cfg)

	serviceFactory, err := servicefactory.New(cfg)
	if err != nil {
		logrus.Fatalf("wire services: %v", err)
	}
	serviceFactory.Start()

	controllers := &router.Controllers{
		Chat:  controller.NewChatController(serviceFactory.ChatService()),
		Files: controller.NewFilesController(serviceFactory.FilesService()),
		Index: controller.NewIndexController(serviceFactory.IndexerService(), serviceFactory.Selector()),
	}
	engine := router.New(controllers, cfg.GetBool(config.AppLogRequest))

	go startServer(cfg, engine)
	waitStop(serviceFactory)
}

func startServer(cfg *config.Config, engine *gin.Engine) {
	addr := cfg.GetString(config.AppHost)
	logrus.Infof("listening on %v", addr)
	if err := http.ListenAndServe(addr, engine); err != nil {
		logrus.Errorf("Failed to ListenAndServe at %v, err = %v", addr, err)
		os.Exit(1)
	}
}

func waitStop(serviceFactory *servicefactory.ServiceFactory) {
	sc := make(chan os.Signal, 1)
	signal.Notify(sc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	sig := <-sc
	log.Printf("exit: signal=<%d>.\n", sig)

	// flush pending chat logs and release connections before exiting
	serviceFactory.Stop()

	switch sig {
	case syscall.SIGTERM:
		log.Println("exit: bye :-).")
		os.Exit(0)
	default:
		log.Println("exit: bye :-(.")
		os.Exit(1)
	}
}
