package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/Leganyst/timeslot-allocator/internal/grpcapi"
)

func newAvailabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Manage availability on a running server",
	}
	cmd.AddCommand(newAvailabilityBulkCmd())
	return cmd
}

func newAvailabilityBulkCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		req     grpcapi.BulkPayload
	)

	cmd := &cobra.Command{
		Use:     "bulk",
		Short:   "Open the same span on every business day of a date range",
		Example: "  timeslot availability bulk --resource 6f1c... --from 2025-11-03 --to 2025-11-28 --start 09:00 --end 18:00",
		RunE: func(cmd *cobra.Command, args []string) error {
			// проверяем аргументы до соединения с сервером
			if _, err := grpcapi.BulkInput(&grpcapi.CreateAvailabilityBulkRequest{Payload: &req}); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("dial %s: %w", addr, err)
			}
			defer conn.Close()

			resp, err := grpcapi.NewClient(conn).CreateAvailabilityBulk(ctx, &grpcapi.CreateAvailabilityBulkRequest{Payload: &req})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d availability intervals\n", resp.Created)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:50051", "server address")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "call timeout")
	cmd.Flags().StringVar(&req.ResourceID, "resource", "", "resource id")
	cmd.Flags().StringVar(&req.DateFrom, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.DateTo, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.Start, "start", "", "span start, HH:MM")
	cmd.Flags().StringVar(&req.End, "end", "", "span end, HH:MM")
	return cmd
}
