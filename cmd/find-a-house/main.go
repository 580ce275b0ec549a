package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"find-a-house/internal"
)

const usage = `Usage: find-a-house [command]

Commands:
  daemon  run cycles on schedule and serve the HTTP API (default)
  run     run a single cycle and exit
  stats   print storage statistics as JSON
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	command := "daemon"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}
	if command != "daemon" && command != "run" && command != "stats" {
		flag.Usage()
		os.Exit(2)
	}

	application, err := internal.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	switch command {
	case "daemon":
		if err := application.Run(); err != nil {
			log.Fatalf("Application run failed: %v", err)
		}

	case "run":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		report, err := application.RunOnce(ctx)
		stop()
		application.Close()
		if err != nil {
			log.Fatalf("Cycle failed: %v", err)
		}
		fmt.Printf("run %s: fetched=%d new=%d matched=%d notified=%d quiet_hours=%t\n",
			report.RunID, report.Fetched, report.New, report.Matched, report.Notified, report.QuietHours)

	case "stats":
		err := application.WriteStats(context.Background(), os.Stdout)
		application.Close()
		if err != nil {
			log.Fatalf("Failed to read stats: %v", err)
		}
	}
}
