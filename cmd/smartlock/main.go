package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/config"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/grpcapi"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/httpapi"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/sim"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device/memory"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device/rpi"
	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/service"
)

func main() {
	logger := log.New(os.Stdout, "smartlock ", log.LstdFlags|log.LUTC)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatalf("%v", err)
	}
}

func run(cfg config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Peripherals
	var (
		periph device.Peripherals
		board  *memory.Board
	)
	switch cfg.Driver {
	case config.DriverGPIO:
		p, err := rpi.Open(rpi.Pins{
			Trig:           cfg.TrigPin,
			Echo:           cfg.EchoPin,
			Relay:          cfg.RelayPin,
			Buzzer:         cfg.BuzzerPin,
			RelayActiveLow: cfg.RelayActiveLow,
			KeypadRows:     cfg.KeypadRowPins,
			KeypadCols:     cfg.KeypadColPins,
			LCDRS:          cfg.LCDRSPin,
			LCDEN:          cfg.LCDENPin,
			LCDData:        cfg.LCDDataPins,
			EchoTimeout:    cfg.EchoTimeout,
			KeypadDebounce: cfg.KeypadDebounce,
		})
		if err != nil {
			return err
		}
		periph = p
	default:
		board = memory.NewBoard(sim.Far)
		periph = board.Peripherals()

		// The panel owns the terminal, so logs go to a file.
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	// Controller
	cred, err := service.NewCredential(cfg.Credential)
	if err != nil {
		return err
	}
	ctrl, err := service.NewController(periph, service.Settings{
		Credential: cred,
		Threshold:  device.Centimeters(cfg.DistanceThresholdCM),
		UnlockHold: cfg.UnlockHold,
		AlarmHold:  cfg.AlarmHold,
		ReadyHold:  cfg.ReadyHold,
	}, logger)
	if err != nil {
		return err
	}

	var health *grpcapi.HealthServer
	if cfg.GRPCEnabled() {
		health = grpcapi.NewHealthServer(logger)
	}

	runner := service.NewRunner(ctrl, service.RunnerConfig{
		PollInterval: cfg.PollInterval,
		OnRunning: func(running bool) {
			if health != nil {
				health.SetRunning(running)
			}
		},
	}, logger)

	statusSvc, err := service.NewStatusService(cfg.DeviceID, ctrl, runner)
	if err != nil {
		return err
	}

	// HTTP
	if cfg.HTTPEnabled() {
		srv := httpapi.NewServer(httpapi.Dependencies{
			Logger:        logger,
			Addr:          cfg.HTTPAddr,
			StatusService: statusSvc,
		})
		go func() {
			logger.Printf("listening on %s", cfg.HTTPAddr)
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("server error: %v", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// gRPC health
	if health != nil {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		go func() {
			if err := health.Serve(lis); err != nil {
				logger.Printf("grpc health error: %v", err)
				stop()
			}
		}()
		defer health.Shutdown()
	}

	runner.Start(ctx)
	defer releaseOutputs(periph, logger)
	defer runner.Stop()

	if board != nil {
		err := sim.Run(ctx, board, ctrl)
		stop()
		return err
	}

	<-ctx.Done()
	return nil
}

// releaseOutputs leaves the door locked and the buzzer silent on exit.
func releaseOutputs(p device.Peripherals, logger *log.Logger) {
	if err := p.Relay.Set(false); err != nil {
		logger.Printf("relay release on exit: %v", err)
	}
	if err := p.Buzzer.Set(false); err != nil {
		logger.Printf("buzzer release on exit: %v", err)
	}
}
