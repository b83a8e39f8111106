package tools

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ErrorWithPrintContext runs a close func and logs instead of returning the error.
func ErrorWithPrintContext(closeFunc func() error, format string, args ...interface{}) {
	if err := closeFunc(); err != nil {
		context := fmt.Sprintf(format, args...)
		log.Errorf("error closing resource: %s, error: %v", context, err)
	}
}
