// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"resume-screening-workers/pkg/registry"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(time.Now).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "registry-updater: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(now func() time.Time) *cobra.Command {
	var registryPath string

	root := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Maintains the activity registry process models are built against",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&registryPath, "path", registry.DefaultPath, "Path to registry file")

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Write every built-in worker's task type, input schema and error codes into the registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadOrNew(registryPath)
			if err != nil {
				return err
			}
			added, err := syncBuiltins(reg)
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			if err := registry.SaveRegistry(reg, registryPath, now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d activities (%d new) into %s\n", len(reg.Activities), added, registryPath)
			return nil
		},
	}

	var field, value string
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update one field of an existing activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			a, ok := reg.Find(args[0])
			if !ok {
				return fmt.Errorf("activity with ID %s not found", args[0])
			}
			if err := setField(a, field, value); err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			if err := registry.SaveRegistry(reg, registryPath, now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", args[0], field, value)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&field, "field", "", "Field to update (status, version, displayName, description, timeout, retries)")
	updateCmd.Flags().StringVar(&value, "value", "", "New value for the field")
	updateCmd.MarkFlagRequired("field")
	updateCmd.MarkFlagRequired("value")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the registry file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return err
			}

			taskTypes := make([]string, 0)
			for _, a := range builtinActivities() {
				taskTypes = append(taskTypes, a.taskType)
			}
			if missing := reg.Missing(taskTypes); len(missing) > 0 {
				return fmt.Errorf("registry has no entry for task types %v; run sync", missing)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}

	var varsFile string
	checkCmd := &cobra.Command{
		Use:   "check ID",
		Short: "Validate a JSON file of process variables against an activity's input schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			a, ok := reg.Find(args[0])
			if !ok {
				return fmt.Errorf("activity with ID %s not found", args[0])
			}

			data, err := os.ReadFile(varsFile)
			if err != nil {
				return err
			}
			var vars map[string]interface{}
			if err := json.Unmarshal(data, &vars); err != nil {
				return fmt.Errorf("variables file is not a JSON object: %w", err)
			}

			result, err := a.ValidateVariables(vars)
			if err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("variables rejected by %s: %v", a.TaskType, result.GetErrorMessages())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Variables accepted by %s\n", a.TaskType)
			return nil
		},
	}
	checkCmd.Flags().StringVar(&varsFile, "vars", "", "JSON file holding the process variables")
	checkCmd.MarkFlagRequired("vars")

	root.AddCommand(syncCmd, updateCmd, validateCmd, checkCmd)
	return root
}

func loadOrNew(path string) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err == nil {
		return reg, nil
	}
	if os.IsNotExist(err) {
		return &registry.ActivityRegistry{Version: "1.0.0"}, nil
	}
	return nil, fmt.Errorf("failed to load registry: %w", err)
}

// syncBuiltins refreshes the generated parts of each built-in activity and
// keeps hand-edited status, version and retries.
func syncBuiltins(reg *registry.ActivityRegistry) (int, error) {
	added := 0
	for _, w := range builtinActivities() {
		schema, err := registry.InputSchemaOf(w.schema)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", w.id, err)
		}
		codes := make([]string, len(w.errorCodes))
		for i, c := range w.errorCodes {
			codes[i] = string(c)
		}

		a := registry.Activity{
			ID:                   w.id,
			DisplayName:          w.displayName,
			Description:          w.description,
			Category:             w.category,
			Version:              "1.0.0",
			TaskType:             w.taskType,
			ImplementationStatus: "completed",
			InputSchema:          schema,
			OutputVariables:      w.outputs,
			ErrorCodes:           codes,
			Timeout:              w.timeout.String(),
			Retries:              3,
			Tags:                 w.tags,
		}
		if existing, ok := reg.Find(w.id); ok {
			a.Version = existing.Version
			a.ImplementationStatus = existing.ImplementationStatus
			a.Retries = existing.Retries
		} else {
			added++
		}
		reg.Upsert(a)
	}
	return added, nil
}

func setField(a *registry.Activity, field, value string) error {
	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}
