package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"myblog/app/repositories"
	"myblog/config"
)

// HandleCommand runs a subcommand and returns the process exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printHelp()
		return 1
	}

	cmd := args[0]
	if cmd == "help" {
		printHelp()
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		printf("Error: %v\n", err)
		return 1
	}

	switch cmd {
	case "serve":
		if err := RunAppServer(context.Background(), cfg); err != nil {
			printf("Error: %v\n", err)
			return 1
		}
		return 0
	case "clean", "init", "backup", "restore":
		if cfg.StoreDriver != "badger" {
			printf("Error: %s only works with the badger store (store driver is %q)\n", cmd, cfg.StoreDriver)
			return 1
		}
	default:
		printf("Unknown command: %s\n\n", cmd)
		printHelp()
		return 1
	}

	switch cmd {
	case "clean":
		return clean(cfg)
	case "init":
		return initDb(cfg)
	case "backup":
		target := ""
		if len(args) > 1 {
			target = args[1]
		}
		return backup(cfg, target)
	default:
		if len(args) < 2 {
			printLine("Error: backup file path required for restore")
			return 1
		}
		return restore(cfg, args[1])
	}
}

// printHelp prints help for the subcommands.
func printHelp() {
	helpText := `Usage: myblog <command>

Commands:
  serve                           Run the blog server
  clean                           Delete every post, comment and user
  init                            Initialize a new empty database
  backup [file]                   Create a backup of the database
  restore <file>                  Restore database from backup
  help                            Display this help message
  version                         Show version information
`
	printLine(helpText)
}

// clean empties the database.
func clean(cfg config.AppConfig) int {
	if !exists(cfg.BadgerPath) {
		printLine("Database is already clean (does not exist)")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		printLine("Operation cancelled")
		return 1
	}

	store, err := repositories.Open(cfg.BadgerPath)
	if err != nil {
		printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		printf("Failed to clean database: %v\n", err)
		return 1
	}
	printLine("Database cleaned successfully")
	return 0
}

// initDb initializes a new empty database.
func initDb(cfg config.AppConfig) int {
	if exists(cfg.BadgerPath) {
		printLine("Database already exists. Use 'clean' first if you want to reinitialize.")
		return 0
	}

	if err := os.MkdirAll(cfg.BadgerPath, 0o755); err != nil {
		printf("Failed to create database directory: %v\n", err)
		return 1
	}

	store, err := repositories.Open(cfg.BadgerPath)
	if err != nil {
		printf("Failed to initialize database: %v\n", err)
		return 1
	}
	if err := store.Close(); err != nil {
		printf("Failed to initialize database: %v\n", err)
		return 1
	}

	printLine("Database initialized successfully")
	return 0
}

// backup writes a backup of the database to target, or to a timestamped file
// under data/backups when target is empty.
func backup(cfg config.AppConfig, target string) int {
	if !exists(cfg.BadgerPath) {
		printLine("No database exists to backup")
		return 1
	}

	if target == "" {
		target = filepath.Join("data", "backups", fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	store, err := repositories.Open(cfg.BadgerPath)
	if err != nil {
		printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	f, err := os.Create(target)
	if err != nil {
		printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := store.Backup(f); err != nil {
		printf("Failed to backup database: %v\n", err)
		return 1
	}

	printf("Database backed up successfully to %s\n", target)
	return 0
}

// restore replaces the database contents with a backup.
func restore(cfg config.AppConfig, backupFile string) int {
	f, err := os.Open(backupFile)
	if err != nil {
		printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if exists(cfg.BadgerPath) && !confirm("Existing database found. Do you want to replace it?") {
		printLine("Operation cancelled")
		return 1
	}

	if err := os.MkdirAll(cfg.BadgerPath, 0o755); err != nil {
		printf("Failed to create database directory: %v\n", err)
		return 1
	}

	store, err := repositories.Open(cfg.BadgerPath)
	if err != nil {
		printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		if err := store.Clear(); err != nil {
			return err
		}
		return store.Load(f)
	}()
	if err != nil {
		printf("Failed to restore database: %v\n", err)
		return 1
	}

	printLine("Database restored successfully")
	return 0
}
