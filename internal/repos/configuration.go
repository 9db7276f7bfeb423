package repos

import "strings"

const (
	newConfigurationKeyConstant         = "new"
	configurationGradingUserKeyConstant = "grading_user"
	configurationGradingACLKeyConstant  = "grading_acl"
	configurationCloneKeyConstant       = "clone"

	defaultGradingUserConstant = "ramassage-tek"
	defaultGradingACLConstant  = "r"
)

// ToolsConfiguration captures repository command configuration sections.
type ToolsConfiguration struct {
	New NewConfiguration `mapstructure:"new"`
}

// NewConfiguration describes what `new` does after creating a repository.
type NewConfiguration struct {
	GradingUser string `mapstructure:"grading_user"`
	GradingACL  string `mapstructure:"grading_acl"`
	Clone       bool   `mapstructure:"clone"`
}

// DefaultToolsConfiguration returns baseline configuration values for repository commands.
func DefaultToolsConfiguration() ToolsConfiguration {
	return ToolsConfiguration{
		New: NewConfiguration{
			GradingUser: defaultGradingUserConstant,
			GradingACL:  defaultGradingACLConstant,
			Clone:       true,
		},
	}
}

// DefaultConfigurationValues produces Viper defaults for repository commands.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultToolsConfiguration()
	return map[string]any{
		rootKey + "." + newConfigurationKeyConstant + "." + configurationGradingUserKeyConstant: defaults.New.GradingUser,
		rootKey + "." + newConfigurationKeyConstant + "." + configurationGradingACLKeyConstant:  defaults.New.GradingACL,
		rootKey + "." + newConfigurationKeyConstant + "." + configurationCloneKeyConstant:       defaults.New.Clone,
	}
}

// sanitize trims configured values. A blank grading user disables the grant.
func (configuration NewConfiguration) sanitize() NewConfiguration {
	sanitized := configuration
	sanitized.GradingUser = strings.TrimSpace(configuration.GradingUser)
	sanitized.GradingACL = strings.TrimSpace(configuration.GradingACL)
	return sanitized
}
