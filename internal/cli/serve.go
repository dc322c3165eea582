package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Leganyst/timeslot-allocator/internal/grpcapi"
	"github.com/Leganyst/timeslot-allocator/internal/model"
	"github.com/Leganyst/timeslot-allocator/internal/repository"
	"github.com/Leganyst/timeslot-allocator/internal/service"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC allocation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if migrateUp {
				if err := model.AutoMigrate(a.db); err != nil {
					return fmt.Errorf("auto migrate: %w", err)
				}
			}

			locker, err := a.locker(ctx)
			if err != nil {
				return err
			}

			store := repository.NewGormStore(a.db, locker)
			srv := grpcapi.NewServer(
				service.NewBookingService(store, a.log),
				service.NewAvailabilityService(store, a.log, a.cfg.Engine.MaxBulkDays),
				service.NewQueryService(store, a.log),
				a.log,
			)

			limiter := grpcapi.NewRateLimiter(a.cfg.GRPC.RateLimitRPS, a.cfg.GRPC.RateLimitBurst)
			grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
				grpcapi.LoggingInterceptor(a.log.Named("rpc")),
				limiter.UnaryInterceptor(),
			))
			grpcapi.RegisterAllocatorServer(grpcServer, srv)

			healthSrv := health.NewServer()
			healthpb.RegisterHealthServer(grpcServer, healthSrv)
			healthSrv.SetServingStatus(grpcapi.ServiceName, healthpb.HealthCheckResponse_SERVING)

			lis, err := net.Listen("tcp", a.cfg.GRPC.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", a.cfg.GRPC.Addr, err)
			}

			a.log.Info("gRPC server listening",
				zap.String("addr", a.cfg.GRPC.Addr),
				zap.String("db_driver", a.cfg.Database.Driver),
				zap.String("lock_backend", a.cfg.Lock.Backend),
			)

			errCh := make(chan error, 1)
			go func() {
				errCh <- grpcServer.Serve(lis)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("grpc serve: %w", err)
			case <-ctx.Done():
			}

			a.log.Info("shutting down gRPC server...")
			healthSrv.Shutdown()
			grpcServer.GracefulStop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run AutoMigrate on startup")
	return cmd
}
