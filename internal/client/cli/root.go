package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/shopkeeper/internal/config"
	"github.com/iudanet/shopkeeper/internal/logger"
)

// annotationNoStore помечает команды, которым не нужны локальные хранилища
const annotationNoStore = "shopkeeper/no-store"

type rootFlags struct {
	configFile string
	envFile    string
	apiURL     string
	logLevel   string
}

// RootCmd собирает дерево команд
func (c *Cli) RootCmd(info BuildInfo) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "shopkeeper",
		Short: "shopkeeper - локальный каталог продуктов для маркетплейса",
		Long: `shopkeeper хранит продукты продавца в локальном файле и синхронизирует
их с маркетплейсом: черновики создаются офлайн, push отправляет манифест
изменений, pull забирает покупки, отзывы и статистику.`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", info.Version, info.BuildDate, info.GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipSetup(cmd) {
				return nil
			}
			return c.setup(cmd, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close()
		},
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "конфигурационный файл (по умолчанию config.yaml в config_dir)")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "файл с переменными окружения (по умолчанию .env)")
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "URL API маркетплейса")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "уровень логирования (debug, info, warn, error)")

	root.AddCommand(
		c.newProductCmd(),
		c.newProfileCmd(),
		c.newAuthCmd(),
		c.newSyncCmd(),
		c.newActivityCmd(),
		c.newStatusCmd(),
		c.newSandboxCmd(),
	)

	return root
}

// setup загружает конфигурацию, применяет флаги и открывает хранилища
func (c *Cli) setup(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: flags.configFile,
		EnvFile:    flags.envFile,
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if flags.apiURL != "" {
		cfg.APIURL = strings.TrimRight(flags.apiURL, "/")
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cmd.ErrOrStderr(), cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = log

	if cmd.Annotations[annotationNoStore] != "" {
		return nil
	}
	return c.Open(cmd.Context(), cfg, log)
}

func skipSetup(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		if p.Name() == "help" || p.Name() == "completion" {
			return true
		}
	}
	return false
}
