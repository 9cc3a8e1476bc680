package main

import (
	"Mintora/internal/api/config"
	"Mintora/internal/pkg/database"
	"Mintora/internal/pkg/security"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	creatorID string
	roles     []string
)

var rootCmd = &cobra.Command{
	Use:   "mintoractl",
	Short: "Mintora 运维工具",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadConfig()
	},
}

// tokenCmd 为本地调试签发 JWT
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "签发创作者 JWT",
	RunE: func(cmd *cobra.Command, args []string) error {
		security.InitJWT(config.Cfg.JWT)
		for i, r := range roles {
			roles[i] = strings.ToUpper(strings.TrimSpace(r))
		}
		token, err := security.GenerateToken(creatorID, roles)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "同步数据库表结构",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbCfg := config.Cfg.DB
		if dbCfg.Driver == database.DriverMemory {
			return errors.New("memory driver has no schema")
		}
		db, err := database.NewGormDB(&dbCfg)
		if err != nil {
			return err
		}
		if err = database.AutoMigrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrated", dbCfg.Driver)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&creatorID, "creator", "", "创作者钱包地址")
	tokenCmd.Flags().StringSliceVar(&roles, "role", nil, "角色，可重复，如 MODERATOR")
	_ = tokenCmd.MarkFlagRequired("creator")

	rootCmd.AddCommand(tokenCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
