package main // One-shot maintenance sweep for cron jobs and backfills

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/stay-reservation/internal/config"
	"github.com/iliyamo/stay-reservation/internal/database"
	"github.com/iliyamo/stay-reservation/internal/queue"
	"github.com/iliyamo/stay-reservation/internal/repository"
	"github.com/iliyamo/stay-reservation/internal/scheduler"
	"github.com/iliyamo/stay-reservation/internal/service"
)

func main() {
	job := flag.String("job", "all", "sweep to run: completion, expiration or all")
	flag.Parse()

	config.LoadDotEnv()
	cfg := config.Load()

	logger, closer := config.NewLogger(config.LoadLogConfig())
	defer closer.Close()
	log := logger.WithFields(logrus.Fields{"component": "sweep", "job": *job})

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(log)
	if rdb != nil {
		defer rdb.Close()
	}

	var dispatcher queue.Dispatcher = queue.LogDispatcher{Log: log}
	if amqpCfg := config.LoadAMQPConfig(); amqpCfg.Enabled {
		dispatcher = queue.NewPublisher(amqpCfg, log)
	}

	bookingCfg := config.LoadBookingConfig()
	svc := service.New(repository.NewStore(db), dispatcher, bookingCfg, log)
	schedCfg := config.LoadSchedulerConfig()
	sched := scheduler.New(svc, scheduler.NewLocker(rdb, schedCfg.Prefix, schedCfg.LockTTL, log), schedCfg, bookingCfg.Location, log)

	var results []service.SweepResult
	run := func(fn func(context.Context) (service.SweepResult, error)) {
		res, err := fn(ctx)
		if err != nil {
			log.WithError(err).Fatal("sweep failed")
		}
		results = append(results, res)
	}
	switch *job {
	case service.JobCompletion:
		run(sched.RunCompletion)
	case service.JobExpiration:
		run(sched.RunExpiration)
	case "all":
		run(sched.RunCompletion)
		run(sched.RunExpiration)
	default:
		log.Fatalf("unknown job %q", *job)
	}
	svc.Wait()

	exit := 0
	for _, r := range results {
		log.WithFields(logrus.Fields{"sweep": r.Job, "count": r.Count, "failed": len(r.Failed)}).Info("sweep finished")
		if len(r.Failed) > 0 {
			exit = 1
		}
	}
	os.Exit(exit)
}
