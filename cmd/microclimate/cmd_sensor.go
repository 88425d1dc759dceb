package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sguter90/microclimate/pkg/api"
	"github.com/spf13/cobra"
)

var sensorCmd = &cobra.Command{
	Use:   "sensor",
	Short: "Query sensors of a running server",
	Long:  `Commands that read sensor data through the HTTP API of a running server.`,
}

var sensorShowCmd = &cobra.Command{
	Use:   "show <sensor-id>",
	Short: "Show a sensor with its type and location",
	Args:  cobra.ExactArgs(1),
	RunE:  runSensorShow,
}

var sensorLatestCmd = &cobra.Command{
	Use:   "latest <sensor-id>",
	Short: "Show the newest reading of a sensor",
	Args:  cobra.ExactArgs(1),
	RunE:  runSensorLatest,
}

func init() {
	sensorCmd.PersistentFlags().String("server", "http://localhost:8059", "base URL of the server")
	sensorCmd.PersistentFlags().String("token", os.Getenv("MICROCLIMATE_TOKEN"), "session token")
	sensorCmd.PersistentFlags().String("username", "", "log in as this user when no token is given")
	sensorCmd.PersistentFlags().Duration("timeout", 10*time.Second, "request timeout")

	rootCmd.AddCommand(sensorCmd)
	sensorCmd.AddCommand(sensorShowCmd, sensorLatestCmd)
}

// apiClient builds a client from the command flags, logging in interactively
// when only a username is given
func apiClient(cmd *cobra.Command) (*api.Client, error) {
	flags := cmd.Flags()
	server, _ := flags.GetString("server")
	token, _ := flags.GetString("token")
	username, _ := flags.GetString("username")
	timeout, _ := flags.GetDuration("timeout")

	client := api.NewClient(server, api.WithTimeout(timeout), api.WithToken(token))
	if token != "" {
		return client, nil
	}
	if username == "" {
		return nil, errors.New("either --token or --username is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return nil, err
	}
	if _, err := client.Login(cmd.Context(), username, password); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return client, nil
}

func parseSensorID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid sensor id %q", arg)
	}
	return id, nil
}

func runSensorShow(cmd *cobra.Command, args []string) error {
	id, err := parseSensorID(args[0])
	if err != nil {
		return err
	}

	client, err := apiClient(cmd)
	if err != nil {
		return err
	}

	sensor, err := client.GetSensor(cmd.Context(), id)
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("sensor %d does not exist", id)
	}
	if err != nil {
		return err
	}

	return printJSON(sensor)
}

func runSensorLatest(cmd *cobra.Command, args []string) error {
	id, err := parseSensorID(args[0])
	if err != nil {
		return err
	}

	client, err := apiClient(cmd)
	if err != nil {
		return err
	}

	reading, err := client.GetLatestReading(cmd.Context(), id)
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("sensor %d has no readings", id)
	}
	if err != nil {
		return err
	}

	return printJSON(reading)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
