package main

import (
	"fmt"
	"gateway/config"
	"gateway/db"
	"gateway/lalamove"
	"gateway/logging"
	"gateway/redis"
	"gateway/service"
	"gateway/zenpay"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	_ "gateway/docs"
)

//	@title			Carrier Gateway API
//	@version		1.0
//	@description	Signed carrier/payment webhook and dispatch gateway.
//	@termsOfService	http://swagger.io/terms/

//	@license.name	Apache 2.0

func main() {
	executablePath, err := os.Executable()
	if err != nil {
		fmt.Printf("error getting executable path: %v\n", err)
		return
	}

	appName := filepath.Base(executablePath)
	config := config.NewConfig()
	if _, err := toml.DecodeFile("/usr/local/etc/"+appName+".conf", config); err != nil {
		log.Fatalf("loading config: %s", err)
	}

	logging.Init(appName, config)

	if err := db.Init(config.DBConfig); err != nil {
		log.Fatalf("init database: %s", err)
	}

	redis.Init(config.RedisConfig)

	apiKey, carrierSecret, err := lalamove.LoadCredentials(config.Lalamove)
	if err != nil {
		log.Fatalf("load carrier credentials: %s", err)
	}

	carrier, err := lalamove.NewClient(config.Lalamove, apiKey, carrierSecret)
	if err != nil {
		log.Fatalf("init carrier client: %s", err)
	}

	gatewaySecret, err := zenpay.LoadSecret(config.ZenPay)
	if err != nil {
		log.Fatalf("load gateway secret: %s", err)
	}

	gateway, err := zenpay.NewClient(config.ZenPay, gatewaySecret)
	if err != nil {
		log.Fatalf("init gateway client: %s", err)
	}

	webhookSecret := loadWebhookSecret(config.Webhook.SecretFile)

	svc := service.NewService(config, carrier, gateway, webhookSecret)

	service.NewDispatchProcessor(config, svc)

	go service.GetDispatchProcessor().Run()

	server := svc.NewServer()

	log.Fatalf("serve: %s", server.ListenAndServe(":"+config.ListenPort))
}

// loadWebhookSecret reads the carrier webhook secret; a missing file means
// inbound carrier callbacks are accepted unsigned.
func loadWebhookSecret(path string) string {
	if path == "" {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("carrier webhook secret not loaded, signature checks disabled: %s", err)
		return ""
	}

	return strings.TrimSpace(string(data))
}
