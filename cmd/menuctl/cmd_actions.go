// cmd/menuctl/cmd_actions.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"kondate-planner/internal/params"
	"kondate-planner/pkg/registry"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	registryFile  string
	registryWrite string
)

var repairCmd = &cobra.Command{
	Use:   "repair <text>",
	Short: "Run the parameter normalizer on a string and print the result",
	Long: `Parses text the way action parameters are parsed: strict JSON first,
then the quasi-JSON form agents produce ({key=value, ...}). Prints the
decoded value as JSON together with the encoding that matched.`,
	Example: `  menuctl repair '{breakfast=[{recipe_id=recipe_001, name=トースト}]}'`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRepair,
}

var invokeCmd = &cobra.Command{
	Use:   "invoke <task-type> <event.json>",
	Short: "Run an agent action against a recorded event",
	Long: `Loads a recorded agent or direct event from a file, runs it through the
named action against the configured tables and prints the response envelope.`,
	Example: `  menuctl invoke get-history testdata/get-history.json`,
	Args:    cobra.ExactArgs(2),
	RunE:    runInvoke,
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Print, validate or export the action catalogue",
	Args:  cobra.NoArgs,
	RunE:  runActions,
}

func init() {
	actionsCmd.Flags().StringVarP(&registryFile, "file", "f", "", "Catalogue file to validate instead of the built-in one")
	actionsCmd.Flags().StringVar(&registryWrite, "write", "", "Write the built-in catalogue to this path")
}

type repairOutput struct {
	Encoding params.Encoding `json:"encoding"`
	Value    interface{}     `json:"value"`
}

func runRepair(cmd *cobra.Command, args []string) error {
	value, encoding, err := params.NormalizeWithEncoding(args[0], "text")
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), repairOutput{Encoding: encoding, Value: value})
}

func runInvoke(cmd *cobra.Command, args []string) error {
	taskType, path := args[0], args[1]

	event, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read event: %w", err)
	}
	if !json.Valid(event) {
		return fmt.Errorf("%s is not valid JSON", path)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	deps, err := dependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	action, ok := deps.AgentActions()[taskType]
	if !ok {
		return fmt.Errorf("unknown agent action %q (available: %v)", taskType, registry.Default().TaskTypes(registry.TransportAgent))
	}

	out, err := action.Handle(ctx, event)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func runActions(cmd *cobra.Command, args []string) error {
	if registryWrite != "" {
		if err := registry.SaveRegistry(registry.Default(), registryWrite); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalogue written to %s\n", registryWrite)
		return nil
	}

	reg := registry.Default()
	if registryFile != "" {
		loaded, err := registry.LoadRegistry(registryFile)
		if err != nil {
			return err
		}
		reg = loaded
	}

	if err := reg.Validate(); err != nil {
		return fmt.Errorf("catalogue is invalid: %w", err)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(reg)
}
