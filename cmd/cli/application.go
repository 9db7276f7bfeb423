package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/blihbetter/internal/acls"
	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/credentials"
	"github.com/temirov/blihbetter/internal/dependencies"
	"github.com/temirov/blihbetter/internal/menu"
	"github.com/temirov/blihbetter/internal/ping"
	"github.com/temirov/blihbetter/internal/repos"
	"github.com/temirov/blihbetter/internal/sshkeys"
	"github.com/temirov/blihbetter/internal/ui"
	"github.com/temirov/blihbetter/internal/utils"
	pathutils "github.com/temirov/blihbetter/internal/utils/path"
)

const (
	applicationNameConstant                 = "blihbetter"
	applicationShortDescriptionConstant     = "Manage Epitech BLIH repositories, ACLs and SSH keys"
	applicationLongDescriptionConstant      = "blihbetter talks to the BLIH repository service: it lists, creates, clones and deletes repositories, edits their ACLs and manages SSH keys. Run it without arguments for the interactive menu."
	versionTemplateConstant                 = "{{.Name}} version: {{.Version}}\n"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageTemplateConstant       = "Override the configured log level (%s)."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageTemplateConstant      = "Override the configured log format (%s)."
	credentialsFlagNameConstant             = "credentials"
	credentialsFlagUsageConstant            = "Path to the BLIH credentials file (default ~/.config/epitech/config.json)."
	flagChoiceSeparatorConstant             = ", "
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	blihConfigurationKeyConstant            = "blih"
	blihCredentialsPathConfigKeyConstant    = blihConfigurationKeyConstant + ".credentials_path"
	blihTimeoutConfigKeyConstant            = blihConfigurationKeyConstant + ".timeout"
	toolsConfigurationKeyConstant           = "tools"
	reposConfigurationKeyConstant           = toolsConfigurationKeyConstant + ".repos"
	environmentPrefixConstant               = "BLIHBETTER"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationSearchPathConstant     = "~/.config/blihbetter"
	defaultRequestTimeout                   = 30 * time.Second
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	credentialsFileFieldConstant            = "credentials_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandInfoMessageConstant          = "blihbetter CLI executed"
	rootCommandDebugMessageConstant         = "blihbetter CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	setupStartedMessageConstant             = "credentials file missing, starting setup"
	menuStartedMessageConstant              = "starting interactive menu"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Blih   ApplicationBlihConfiguration   `mapstructure:"blih"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationBlihConfiguration locates the credentials file and bounds each BLIH request.
type ApplicationBlihConfiguration struct {
	CredentialsPath string        `mapstructure:"credentials_path"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	Repos repos.ToolsConfiguration `mapstructure:"repos"`
}

// Dependencies replaces the collaborators the application would otherwise construct. Zero values select the defaults.
type Dependencies struct {
	Credentials     dependencies.CredentialsLoader
	Client          dependencies.BlihClient
	Executor        dependencies.ShellExecutor
	Prompter        ui.Prompter
	VersionResolver func(context.Context) string
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	credentialsFlagValue   string
	commandContextAccessor utils.CommandContextAccessor
	homeExpander           *pathutils.HomeExpander
	dependencies           Dependencies
	credentialsBuilder     *credentials.CommandBuilder
	menuBuilder            *menu.CommandBuilder
	reposBuilder           *repos.CommandBuilder
	pingBuilder            *ping.CommandBuilder
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	return NewApplicationWithDependencies(Dependencies{})
}

// NewApplicationWithDependencies assembles the CLI around the provided collaborators.
func NewApplicationWithDependencies(applicationDependencies Dependencies) *Application {
	homeExpander := pathutils.NewHomeExpander()
	configurationLoader := utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
		ConfigurationName: configurationNameConstant,
		ConfigurationType: configurationTypeConstant,
		EnvironmentPrefix: environmentPrefixConstant,
		SearchPaths:       []string{defaultConfigurationSearchPathConstant, userConfigurationSearchPathConstant},
		HomeExpander:      homeExpander,
	})
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	if applicationDependencies.VersionResolver == nil {
		applicationDependencies.VersionResolver = ResolveVersion
	}

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		homeExpander:           homeExpander,
		dependencies:           applicationDependencies,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       applicationDependencies.VersionResolver(context.Background()),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", fmt.Sprintf(logLevelFlagUsageTemplateConstant, strings.Join(utils.SupportedLogLevels(), flagChoiceSeparatorConstant)))
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", fmt.Sprintf(logFormatFlagUsageTemplateConstant, strings.Join(utils.SupportedLogFormats(), flagChoiceSeparatorConstant)))
	cobraCommand.PersistentFlags().StringVar(&application.credentialsFlagValue, credentialsFlagNameConstant, "", credentialsFlagUsageConstant)

	providers := dependencies.Providers{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ClientConfigurationProvider: func() blih.ClientConfiguration {
			return blih.ClientConfiguration{Timeout: application.configuration.Blih.Timeout}
		},
		Credentials: applicationDependencies.Credentials,
		Client:      applicationDependencies.Client,
	}

	application.credentialsBuilder = &credentials.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		Prompter:     applicationDependencies.Prompter,
		HomeExpander: homeExpander,
	}
	credentialsCommand, credentialsBuildError := application.credentialsBuilder.Build()
	if credentialsBuildError == nil {
		cobraCommand.AddCommand(credentialsCommand)
	}

	application.reposBuilder = &repos.CommandBuilder{
		Providers: providers,
		Executor:  applicationDependencies.Executor,
		Prompter:  applicationDependencies.Prompter,
		ConfigurationProvider: func() repos.ToolsConfiguration {
			return application.configuration.Tools.Repos
		},
	}
	reposCommands, reposBuildError := application.reposBuilder.Build()
	if reposBuildError == nil {
		cobraCommand.AddCommand(reposCommands...)
	}

	aclsBuilder := &acls.CommandBuilder{Providers: providers}
	aclsCommands, aclsBuildError := aclsBuilder.Build()
	if aclsBuildError == nil {
		cobraCommand.AddCommand(aclsCommands...)
	}

	sshKeysBuilder := &sshkeys.CommandBuilder{Providers: providers, HomeExpander: homeExpander}
	sshKeysCommand, sshKeysBuildError := sshKeysBuilder.Build()
	if sshKeysBuildError == nil {
		cobraCommand.AddCommand(sshKeysCommand)
	}

	application.pingBuilder = &ping.CommandBuilder{
		Providers: providers,
		Executor:  applicationDependencies.Executor,
	}
	pingCommands, pingBuildError := application.pingBuilder.Build()
	if pingBuildError == nil {
		cobraCommand.AddCommand(pingCommands...)
	}

	application.menuBuilder = &menu.CommandBuilder{
		Providers: providers,
		Prompter:  applicationDependencies.Prompter,
	}
	menuCommand, menuBuildError := application.menuBuilder.Build()
	if menuBuildError == nil {
		cobraCommand.AddCommand(menuCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Command exposes the root command so callers can redirect its streams and arguments.
func (application *Application) Command() *cobra.Command {
	return application.rootCommand
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:      string(utils.LogLevelError),
		commonLogFormatConfigKeyConstant:     string(utils.LogFormatConsole),
		blihCredentialsPathConfigKeyConstant: "",
		blihTimeoutConfigKeyConstant:         defaultRequestTimeout,
	}
	for configurationKey, configurationValue := range repos.DefaultConfigurationValues(reposConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, credentialsFlagNameConstant) {
		application.configuration.Blih.CredentialsPath = application.credentialsFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger
	commandEventLogger := ui.NewConsoleCommandEventLogger(logger)
	application.reposBuilder.CommandEventsObserver = commandEventLogger
	application.pingBuilder.CommandEventsObserver = commandEventLogger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(credentialsFileFieldConstant, application.configuration.Blih.CredentialsPath),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		if credentialsPath := strings.TrimSpace(application.configuration.Blih.CredentialsPath); len(credentialsPath) > 0 {
			updatedContext = application.commandContextAccessor.WithCredentialsFilePath(updatedContext, application.homeExpander.Expand(credentialsPath))
		}
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// runRootCommand starts the setup when no credentials file exists, the menu on a terminal, and prints help otherwise.
func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if application.dependencies.Credentials == nil {
		credentialsPath, pathError := credentials.ResolvePath(command.Context(), application.homeExpander)
		if pathError != nil {
			return pathError
		}
		store := credentials.NewStore(credentialsPath)
		credentialsExist, existsError := store.Exists()
		if existsError != nil {
			return existsError
		}
		if !credentialsExist {
			application.logger.Info(setupStartedMessageConstant, zap.String(credentialsFileFieldConstant, credentialsPath))
			return application.credentialsBuilder.Setup(command, store)
		}
	}

	if application.dependencies.Prompter != nil || ui.IsInteractiveInput(command.InOrStdin()) {
		application.logger.Info(menuStartedMessageConstant)
		return application.menuBuilder.Run(command)
	}

	return command.Help()
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	case errors.Is(syncError, os.ErrInvalid):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
