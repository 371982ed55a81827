package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kesdev/go-ipc"
)

var (
	serverRequireAuth bool
	serverAuthUser    string
	serverAuthPass    string
)

var serverCmd = &cobra.Command{
	Use:   "server <name>",
	Short: "Listen on a named pipe/FIFO pair and serve a demo Calculator collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().BoolVar(&serverRequireAuth, "require-auth", false, "reject calls until a client authenticates")
	serverCmd.Flags().StringVar(&serverAuthUser, "auth-user", "", "username accepted by --require-auth")
	serverCmd.Flags().StringVar(&serverAuthPass, "auth-pass", "", "password accepted by --require-auth")
}

func runServer(cmd *cobra.Command, args []string) error {
	name := args[0]
	logger := newLogger()

	calc := ipc.NewCollection("Calculator")
	calc.Register("add", []ipc.Kind{ipc.KindInt32, ipc.KindInt32}, func(args []ipc.Value) ([]ipc.Value, error) {
		return []ipc.Value{ipc.Int32Value(args[0].Int32() + args[1].Int32())}, nil
	})
	calc.Register("ping", nil, func(args []ipc.Value) ([]ipc.Value, error) {
		return []ipc.Value{ipc.StringValue("pong")}, nil
	})

	opts := []ipc.ServerOption{ipc.WithLogger(logger)}
	if serverRequireAuth || viper.GetBool("require_auth") {
		user := serverAuthUser
		pass := serverAuthPass
		opts = append(opts, ipc.RequireAuth(func(name, password string) bool {
			return name == user && password == pass
		}))
	}

	server, err := ipc.NewServer(name, calc, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	logger.Info("listening", "name", server.Name())
	return server.Serve(ctx)
}
