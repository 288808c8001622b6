package main

import (
	"log/slog"

	"github.com/kasunvimarshana/AutoERP-sub011/pkg/workflowengine"
)

func main() {

	//you may do your own logger setup here or use this default one with slog
	workflowengine.SetupLogger()

	if err := workflowengine.Start(nil); err != nil {
		slog.Error("Engine exited with error", "error", err)
	}
}
