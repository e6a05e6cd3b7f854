package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/taskbot/internal/config"
	"github.com/stellarlinkco/taskbot/internal/gateway"
	"github.com/stellarlinkco/taskbot/internal/task"
)

var rootCmd = &cobra.Command{
	Use:   "taskbot",
	Short: "taskbot - Telegram task planner bot",
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the bot (polling + dialog dispatch)",
	RunE:  runBot,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize config and data directory",
	RunE:  runOnboard,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show taskbot status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(botCmd, onboardCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token not set. Run 'taskbot onboard' or set TASKBOT_TELEGRAM_TOKEN")
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	return gw.Run(context.Background())
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfgDir := config.ConfigDir()
	cfgPath := config.ConfigPath()

	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Created config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config already exists: %s\n", cfgPath)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Opening the store creates the data dir and schema
	store, err := task.NewStore(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("init task store: %w", err)
	}
	_ = store.Close()
	fmt.Printf("Task store ready: %s\n", cfg.Storage.DBPath)

	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s to set your bot token\n", cfgPath)
	fmt.Println("  2. Or set TASKBOT_TELEGRAM_TOKEN environment variable")
	fmt.Println("  3. Run 'taskbot bot' to start polling")

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Config: error (%v)\n", err)
		return nil
	}

	fmt.Printf("Config: %s\n", config.ConfigPath())
	fmt.Printf("Store: %s\n", cfg.Storage.DBPath)
	fmt.Printf("Telegram: enabled=%v\n", cfg.Telegram.Enabled)
	fmt.Printf("Token: %s\n", maskToken(cfg.Telegram.Token))
	fmt.Printf("Maintenance: enabled=%v spec=%q\n", cfg.Maintenance.Enabled, cfg.Maintenance.Spec)

	if _, err := os.Stat(cfg.Storage.DBPath); err != nil {
		fmt.Println("Store: not found (run 'taskbot onboard')")
		return nil
	}

	store, err := task.NewStore(cfg.Storage.DBPath)
	if err != nil {
		fmt.Printf("Store: error (%v)\n", err)
		return nil
	}
	defer store.Close()

	counts, err := store.CountByStatus()
	if err != nil {
		fmt.Printf("Tasks: error (%v)\n", err)
		return nil
	}
	fmt.Printf("Tasks: pending=%d done=%d canceled=%d\n",
		counts[task.StatusPending], counts[task.StatusDone], counts[task.StatusCanceled])

	return nil
}

func maskToken(token string) string {
	if token == "" {
		return "not set"
	}
	if len(token) > 8 {
		return token[:4] + "..." + token[len(token)-4:]
	}
	return "set"
}
