package main

import (
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ledger-session",
	Short: "Wallet session for the transfer ledger",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			logrus.Infof("no .env file loaded: %s", err)
		}
		if err := InitConfig(configPath); err != nil {
			return err
		}
		level, err := logrus.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			level = logrus.InfoLevel
		}
		logrus.SetLevel(level)
		logrus.Infoln("config initialised")
		return nil
	},
}

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yml", "path to the yaml config")
	rootCmd.AddCommand(serveCmd, historyCmd, countCmd, keygenCmd)

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("command failed: %s", err)
	}
}

func InitConfig(path string) error {
	viper.SetConfigFile(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// names kept from the contract deploy setup
	_ = viper.BindEnv("ledger.rpc_url", "ALCHEMY_API")
	_ = viper.BindEnv("wallet.private_key", "PRIVATE_KEY")
	_ = viper.BindEnv("db.password", "DB_PASS_LOCAL")
	_ = viper.BindEnv("mail.mailjet_api_key", "MAILJET_API_KEY")
	_ = viper.BindEnv("mail.mailjet_secret_key", "MAILJET_SECRET_KEY")
	_ = viper.BindEnv("mail.smtp_password", "SMTP_PASSWORD")

	return viper.ReadInConfig()
}
