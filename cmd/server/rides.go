package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/naikprasad87/transport-facility/internal/config"
	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/internal/services"
	"github.com/naikprasad87/transport-facility/pkg/utils"
)

var errClearNotConfirmed = errors.New("refusing to clear all rides without --yes")

func newRidesCmd(load func() (*config.Config, error)) *cobra.Command {
	rides := &cobra.Command{
		Use:   "rides",
		Short: "Inspect or reset the stored rides",
	}
	rides.AddCommand(newRidesListCmd(load), newRidesClearCmd(load))
	return rides
}

func newRidesListCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		desired     string
		buffer      int
		vehicleType string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print stored rides, optionally only those near a time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if desired != "" && !utils.IsClock(desired) {
				return fmt.Errorf("--time %q: %w", desired, utils.ErrInvalidClock)
			}
			vt, ok := entities.ParseVehicleType(vehicleType)
			if !ok {
				return fmt.Errorf("--type must be Bike, Car or All, got %q", vehicleType)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer store.Close()

			registry := services.NewRideRegistry(store, registryOptions(cfg)...)
			registry.Load(cmd.Context())

			list := registry.Rides()
			if desired != "" {
				opts := []services.SearchOption{services.WithVehicleType(vt)}
				if cmd.Flags().Changed("buffer") {
					if buffer < 0 {
						return fmt.Errorf("--buffer must be >= 0, got %d", buffer)
					}
					opts = append(opts, services.WithBuffer(buffer))
				}
				list = registry.FindRidesNearTime(desired, opts...)
			}
			return printRides(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVar(&desired, "time", "", "only rides for today within the buffer of this HH:mm time")
	cmd.Flags().IntVar(&buffer, "buffer", 0, "search window in minutes (default from config)")
	cmd.Flags().StringVar(&vehicleType, "type", "All", "Bike, Car or All")
	return cmd
}

func newRidesClearCmd(load func() (*config.Config, error)) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored ride",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errClearNotConfirmed
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer store.Close()

			registry := services.NewRideRegistry(store, registryOptions(cfg)...)
			if err := registry.ClearAllRides(cmd.Context()).Err(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All rides have been cleared!")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every ride")
	return cmd
}

func printRides(w io.Writer, rides []entities.Ride) error {
	if len(rides) == 0 {
		_, err := fmt.Fprintln(w, "No rides.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tTYPE\tVEHICLE\tSEATS\tOWNER\tFROM\tTO\tBOOKED")
	for _, r := range rides {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%d\n",
			r.ID, r.Date, utils.FormatTo12Hour(r.Time), r.VehicleType, r.VehicleNo,
			r.VacantSeats, r.OwnerEmployeeID, r.PickupPoint, r.Destination, len(r.BookedEmployeeIDs))
	}
	return tw.Flush()
}
