package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kesdev/go-ipc"
)

var (
	clientAuthUser string
	clientAuthPass string
	clientTimeout  time.Duration
)

var clientCmd = &cobra.Command{
	Use:   "client <name>",
	Short: "Dial a go-ipc server and issue a demo Calculator.add call",
	Args:  cobra.ExactArgs(1),
	RunE:  runClient,
}

func init() {
	clientCmd.Flags().StringVar(&clientAuthUser, "auth-user", "", "username to present if the server requires auth")
	clientCmd.Flags().StringVar(&clientAuthPass, "auth-pass", "", "password to present if the server requires auth")
	clientCmd.Flags().DurationVar(&clientTimeout, "timeout", 5*time.Second, "overall timeout covering dial, authentication and the demo call")
}

func runClient(cmd *cobra.Command, args []string) error {
	name := args[0]
	logger := newLogger()
	requestID := uuid.NewString()

	ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
	defer cancel()

	client, err := ipc.Dial(ctx, name, ipc.WithClientLogger(logger))
	if err != nil {
		return err
	}
	defer client.Close()

	if clientAuthUser != "" {
		ok, err := client.Authenticate(ctx, clientAuthUser, clientAuthPass)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("request %s: authentication rejected", requestID)
		}
	}

	values, err := client.Call(ctx, "Calculator", "add", []ipc.Value{ipc.Int32Value(2), ipc.Int32Value(3)})
	if err != nil {
		return err
	}

	logger.Info("call completed", "request_id", requestID, "function", "Calculator.add")
	fmt.Printf("Calculator.add(2, 3) = %d\n", values[0].Int32())
	return nil
}
