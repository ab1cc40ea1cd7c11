package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pc28bot/settler/internal/config"
	"github.com/pc28bot/settler/internal/game"
	"github.com/pc28bot/settler/internal/kvstore"
	"github.com/pc28bot/settler/internal/ledger"
	"github.com/pc28bot/settler/internal/logger"
	"github.com/pc28bot/settler/internal/odds"
	"github.com/pc28bot/settler/internal/player"
	"github.com/pc28bot/settler/internal/settle"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "settler",
		Short: "Chat lottery wager settlement service",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to config file")
	root.AddCommand(runCmd(), settleCmd(), ledgerCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	logger.Init(&logger.Options{Level: logger.ParseLevel(cfg.Settler.Log.Level)})
	return cfg, nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full ingestion and settlement pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := settle.NewManager(cfg)
			if err != nil {
				return err
			}
			defer manager.Stop()
			if err := manager.Start(); err != nil {
				return err
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
}

func settleCmd() *cobra.Command {
	var period, digits string
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Manually replay a draw result against the stored ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			res, err := parseDraw(period, digits)
			if err != nil {
				return err
			}

			store, err := kvstore.NewBadgerStore(cfg.Settler.Storage.Directory)
			if err != nil {
				return fmt.Errorf("badger init: %w", err)
			}
			defer store.Close()

			var oddsCfg *odds.Config
			if cfg.Settler.OddsFile != "" {
				if oddsCfg, err = odds.Load(cfg.Settler.OddsFile); err != nil {
					return err
				}
			}

			orch := settle.NewOrchestrator(
				ledger.NewBetStore(store, cfg.Settler.Ledger.IndexPeriods),
				ledger.NewSummaryStore(store),
				odds.NewTable(oddsCfg),
				player.NewBadgerLedger(store),
				nil,
			)
			return orch.OnDrawResult(res)
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "period id to settle")
	cmd.Flags().StringVar(&digits, "digits", "", "draw digits, e.g. 4,5,6")
	_ = cmd.MarkFlagRequired("period")
	_ = cmd.MarkFlagRequired("digits")
	return cmd
}

func ledgerCmd() *cobra.Command {
	var day, channel, period string
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Dump the wager records of one period",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := kvstore.NewBadgerStore(cfg.Settler.Storage.Directory)
			if err != nil {
				return fmt.Errorf("badger init: %w", err)
			}
			defer store.Close()

			bets := ledger.NewBetStore(store, cfg.Settler.Ledger.IndexPeriods)
			records, err := bets.Query(day, channel, period)
			if err != nil {
				return err
			}
			for _, rec := range records {
				fmt.Printf("%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					rec.Time.Format("15:04:05"), rec.Period, rec.ChannelID,
					rec.PlayerID, rec.PlayerName, rec.TotalAmount, rec.Normalized)
			}
			fmt.Printf("%d records\n", len(records))
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "day, e.g. 2026-08-28")
	cmd.Flags().StringVar(&channel, "channel", "", "channel id (empty for all)")
	cmd.Flags().StringVar(&period, "period", "", "period id")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func parseDraw(period, digits string) (game.DrawResult, error) {
	parts := strings.Split(digits, ",")
	if len(parts) != 3 {
		return game.DrawResult{}, fmt.Errorf("digits must be three comma-separated values, got %q", digits)
	}
	var ds [3]int
	for i, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 0 || d > 9 {
			return game.DrawResult{}, fmt.Errorf("invalid draw digit %q", p)
		}
		ds[i] = d
	}
	return game.DrawResult{Period: period, D1: ds[0], D2: ds[1], D3: ds[2]}, nil
}
