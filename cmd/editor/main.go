// entry point to the photo edit service
package main

import (
	"github.com/ds124wfegd/WB_L3/realtyedit/config"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/appServer"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"version": cfg.Server.AppVersion,
		"port":    cfg.Server.Port,
		"model":   cfg.Gemini.Model,
	}).Info("Config loaded")
	appServer.NewServer(cfg)
}
