package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "git.solsynth.dev/hypernet/sociality/pkg/internal"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/cache"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/database"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/http"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ____             _       _ _ _\n/ ___|  ___   ___(_) __ _| (_) |_ _   _\n\\___ \\ / _ \\ / __| |/ _` | | | __| | | |\n ___) | (_) | (__| | (_| | | | |_| |_| |\n|____/ \\___/ \\___|_|\\__,_|_|_|\\__|\\__, |\n                                  |___/"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Sociality"), pkg.AppVersion)
	fmt.Printf("The identity & social graph service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetDefault("bind", "0.0.0.0:8444")
	viper.SetDefault("security.cookie_name", "sociality_session")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Connect to the side cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to cache.")
	}

	// Wire up services
	srv := services.NewService(database.C, cache.S, cache.L, services.NewMailer())

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", srv.Cleaner.DoAutoDatabaseCleanup)
	quartz.Start()

	// Server
	go http.NewServer(srv).Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
