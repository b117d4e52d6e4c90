package main

import (
	"log/slog"
	"os"

	"github.com/kmaddali/mailmon/collect"
	"github.com/kmaddali/mailmon/constants"
	"github.com/kmaddali/mailmon/db"
	"github.com/kmaddali/mailmon/web"
)

func init() {
	options := &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.999"))
			}
			return a
		},
		Level: slog.LevelDebug,
	}

	handler := slog.NewTextHandler(os.Stdout, options)
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func main() {
	if constants.PostgresDsn != "" {
		if err := db.SetupDatabase(constants.PostgresDsn); err != nil {
			slog.Error("Failed to set up query audit database", "error", err)
			os.Exit(1)
		}
	}

	resolver, err := collect.NewServiceAccountResolver(constants.ServiceAccountFile)
	if err != nil {
		slog.Error("Failed to load service account key", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(web.Config{
		ListenAddr:     constants.ListenAddr,
		FrontendUrl:    constants.FrontendUrl,
		EmailsFilePath: constants.EmailsFilePath,
		StorageBucket:  constants.StorageBucket,
	}, resolver)
	server.Run()
}
