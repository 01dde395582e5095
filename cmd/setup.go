package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"metricseed/internal/config"
	"metricseed/internal/security"
	"metricseed/internal/ui"
	"metricseed/internal/warehouse"
	"metricseed/pkg/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initial configuration setup",
	Run:   runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) {
	fmt.Println("🚀 Setting up MetricSeed CLI...")
	fmt.Println()

	// Check if config already exists
	if config.Exists() {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Configuration already exists. Do you want to overwrite it?",
			Default: false,
		}
		survey.AskOne(prompt, &overwrite)
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return
		}
	}

	cfg := &models.Config{}

	// Collect Snowflake credentials
	fmt.Println("📄 Snowflake Configuration")
	fmt.Println("-------------------------")

	snowflakeQs := []*survey.Question{
		{
			Name: "account",
			Prompt: &survey.Input{
				Message: "Snowflake Account (e.g., xy12345.us-east-1):",
			},
			Validate: survey.Required,
		},
		{
			Name: "username",
			Prompt: &survey.Input{
				Message: "Username:",
			},
			Validate: survey.Required,
		},
		{
			Name: "password",
			Prompt: &survey.Password{
				Message: "Password:",
			},
			Validate: survey.Required,
		},
		{
			Name: "role",
			Prompt: &survey.Input{
				Message: "Role:",
				Default: "ACCOUNTADMIN",
			},
			Validate: survey.Required,
		},
		{
			Name: "warehouse",
			Prompt: &survey.Input{
				Message: "Warehouse:",
				Default: "COMPUTE_WH",
			},
			Validate: survey.Required,
		},
		{
			Name: "database",
			Prompt: &survey.Input{
				Message: "Database:",
				Default: "ANALYTICS_DEMO",
			},
			Validate: survey.Required,
		},
		{
			Name: "schema",
			Prompt: &survey.Input{
				Message: "Schema:",
				Default: "PUBLIC",
			},
			Validate: survey.Required,
		},
	}

	err := survey.Ask(snowflakeQs, &cfg.Snowflake)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	password := cfg.Snowflake.Password

	// Offer to store the password in the OS keyring instead of the
	// config file.
	var useKeyring bool
	keyringPrompt := &survey.Confirm{
		Message: "Store the password in the OS keyring instead of the config file?",
		Default: true,
	}
	survey.AskOne(keyringPrompt, &useKeyring)

	if useKeyring {
		cm, err := security.NewCredentialManager()
		if err != nil {
			fmt.Printf("Warning: keyring unavailable, keeping password in config file: %v\n", err)
		} else if err := cm.StoreCredential(security.SnowflakePasswordKey, cfg.Snowflake.Password); err != nil {
			fmt.Printf("Warning: failed to store password securely, keeping it in config file: %v\n", err)
		} else {
			cfg.Snowflake.Password = ""
			cfg.Snowflake.UseKeyring = true
		}
	}

	// Save configuration
	if err := config.Save(cfg); err != nil {
		fmt.Printf("Error saving configuration: %v\n", err)
		os.Exit(1)
	}

	// Offer a connection test before the first seed run
	var testConn bool
	testPrompt := &survey.Confirm{
		Message: "Test the Snowflake connection now?",
		Default: true,
	}
	survey.AskOne(testPrompt, &testConn)

	if testConn {
		svc := warehouse.NewService(warehouse.Config{
			Account:   cfg.Snowflake.Account,
			Username:  cfg.Snowflake.Username,
			Password:  password,
			Role:      cfg.Snowflake.Role,
			Warehouse: cfg.Snowflake.Warehouse,
			Database:  cfg.Snowflake.Database,
			Schema:    cfg.Snowflake.Schema,
		})
		if err := svc.TestConnection(); err != nil {
			ui.ShowError(err)
		} else {
			svc.Close()
			ui.ShowSuccess("Connection successful")
		}
	}

	fmt.Println()
	fmt.Printf("✅ Configuration saved to %s\n", config.GetConfigFile())
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  metricseed preview        # inspect the dataset before loading")
	fmt.Println("  metricseed seed           # create and populate the sample tables")
	fmt.Println("  metricseed verify         # run dashboard queries against the seeded data")
}
