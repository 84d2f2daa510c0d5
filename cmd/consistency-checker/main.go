package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"consistencychecker/internal/app/runtime"
	"consistencychecker/internal/pkg/consts"
	"consistencychecker/internal/pkg/logger"

	"github.com/google/uuid"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: consistency-checker [flags] <routine>

Routines:
  %s        repair paid loans still reporting days in arrear
  %s   clear arrear counters on fully settled installments
  %s  report payments missing from amortization tables
  %s  remove payment links with no backing payment

Flags:
`, consts.RoutineArrears, consts.RoutineZeroBalance, consts.RoutinePaymentAudit, consts.RoutinePaymentLinks)
	flag.PrintDefaults()
}

func main() {
	dateRange := flag.String("range", consts.RangeRecent, "payment audit window: recent, august, september or october")
	limit := flag.Int64("limit", 0, "cap the number of payments examined, 0 means no cap")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	routine := flag.Arg(0)

	ctx := logger.WithTraceID(context.Background(), uuid.NewString())

	app, err := runtime.New(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Shutdown(ctx)

	if err := app.Run(ctx, routine, *dateRange, *limit); err != nil {
		logger.CtxError(ctx, "Consistency routine failed", err)
		app.Shutdown(ctx)
		os.Exit(1)
	}
}
