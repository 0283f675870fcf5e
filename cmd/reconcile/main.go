package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	"simplesurvey/config"
	"simplesurvey/db"
	"simplesurvey/services/triggers"
	"simplesurvey/usecases/reconciler"
)

type Options struct {
	Channels []string `long:"channel" short:"c" description:"Channel to survey in (repeatable)"`
	Users    []string `long:"user" short:"u" description:"User allowed to create surveys (repeatable, empty allows everyone)"`
	List     bool     `long:"list" description:"Only print the reaction triggers currently owned by the app"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	if !opts.List && len(opts.Channels) == 0 {
		return fmt.Errorf("at least one --channel is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.Migrate(ctx, dbConn, cfg.DatabaseSchema); err != nil {
		return err
	}

	triggersService := triggers.NewTriggersService(
		db.NewPostgresTriggersRepository(dbConn, cfg.DatabaseSchema),
		cfg.SurveyConfig.AppID,
	)
	reconcilerUseCase := reconciler.NewReconcilerUseCase(triggersService, cfg.SurveyConfig.ActorFilterScope)

	if !opts.List {
		if err := reconcilerUseCase.Reconcile(ctx, opts.Channels, opts.Users); err != nil {
			return err
		}
	}

	subscriptions, err := reconcilerUseCase.ListOwned(ctx)
	if err != nil {
		return err
	}

	for _, subscription := range subscriptions {
		actors := "everyone"
		if len(subscription.ActorFilter) > 0 {
			actors = strings.Join(subscription.ActorFilter, ",")
		}
		fmt.Printf("%s\t%s\tchannels=%s\tactors=%s\n",
			subscription.ID,
			subscription.EventKind,
			strings.Join(subscription.ChannelScope, ","),
			actors,
		)
	}
	return nil
}
