package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/openweb3-io/cryptocapital"
	"github.com/openweb3-io/cryptocapital/builder"
	"github.com/openweb3-io/cryptocapital/cmd/cryptocap/setup"
	"github.com/openweb3-io/cryptocapital/signer"
	"github.com/openweb3-io/cryptocapital/signer/secp256k1"
	"github.com/openweb3-io/cryptocapital/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func printYaml(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

func printEvent(ev types.Event) {
	fmt.Printf("%s %s\n", ev.Name, string(ev.Payload))
}

func CmdKeygen() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new secp256k1 key pair.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			compressed, _ := cmd.Flags().GetBool("compressed")
			var opts []secp256k1.KeyGenOption
			if compressed {
				opts = append(opts, secp256k1.WithCompressedPublicKey())
			}
			cred, err := secp256k1.NewKeyPairGenerator(opts...).Generate()
			if err != nil {
				return err
			}
			keyHex, _ := signer.KeyToHex(cred.PrivateKey)
			pubHex, _ := signer.KeyToHex(cred.PublicKey)
			return printYaml(map[string]string{
				"key":     cred.PrivateKey,
				"pub":     cred.PublicKey,
				"key_hex": keyHex,
				"pub_hex": pubHex,
			})
		},
	}
	cmd.Flags().Bool("compressed", false, "Emit a 33 byte compressed public key.")
	return cmd
}

func CmdSign() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign <operation>",
		Short: "Build and sign a request offline, without sending it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup.UnwrapConfig(cmd.Context())
			op, params, err := setup.OperationFromArgs(cmd, args[0])
			if err != nil {
				return err
			}
			nonce, _ := cmd.Flags().GetInt64("nonce")
			if nonce == 0 {
				nonce = builder.WallClock{}.Next()
			}

			cred, err := cfg.Credential(cmd.Context())
			if err != nil {
				return err
			}
			s, err := secp256k1.NewLocalSigner(cred)
			if err != nil {
				return err
			}
			b, err := builder.NewRequestBuilder(s)
			if err != nil {
				return err
			}
			env, err := b.BuildWithNonce(op, params, nonce)
			if err != nil {
				return err
			}
			if err := builder.Verify(op, env, secp256k1.NewVerifier()); err != nil {
				return err
			}

			message, err := builder.SignableString(op, env.Key, env.Nonce, env.Params)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(env, "", "  ")
			fmt.Printf("signable: %s\n", message)
			fmt.Printf("event: %s\n", op.EventName())
			fmt.Println(string(bz))
			return nil
		},
	}
	setup.AddOperationFlags(cmd)
	cmd.Flags().Int64("nonce", 0, "Nonce in milliseconds. Defaults to now.")
	return cmd
}

func connect(ctx context.Context) (cryptocapital.IClient, error) {
	cfg := setup.UnwrapConfig(ctx)
	return setup.UnwrapFactory(ctx).NewClient(ctx, cfg)
}

func subscribeAll(client cryptocapital.IClient, h func(types.Event)) {
	for _, name := range types.EventNameList {
		client.Subscribe(name, h)
	}
}

func CmdSubmit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <operation>",
		Short: "Sign and send a request, then print events until it is answered.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, _ := cmd.Flags().GetDuration("timeout")
			op, params, err := setup.OperationFromArgs(cmd, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			client, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			answers := make(chan types.Event, 16)
			subscribeAll(client, func(ev types.Event) {
				printEvent(ev)
				switch ev.Name {
				case types.EventAck, types.EventErr, types.EventError:
					select {
					case answers <- ev:
					default:
					}
				}
			})

			// the session has to be authenticated before the service answers anything else
			if op != types.OperationAuth {
				if _, err := client.Auth(ctx, nil); err != nil {
					return err
				}
				if err := awaitAck(ctx, answers, types.OperationAuth); err != nil {
					return err
				}
			}
			env, err := client.Submit(ctx, op, params)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"operation": op,
				"nonce":     env.Nonce,
			}).Info("submitted")

			return awaitAck(ctx, answers, op)
		},
	}
	setup.AddOperationFlags(cmd)
	cmd.Flags().Duration("timeout", 30*time.Second, "How long to wait for an answer.")
	return cmd
}

// awaitAck takes the next answer; anything but an ack fails op.
func awaitAck(ctx context.Context, answers <-chan types.Event, op types.Operation) error {
	select {
	case ev := <-answers:
		if ev.Name != types.EventAck {
			return fmt.Errorf("%s failed: %s %s", op, ev.Name, strings.TrimSpace(string(ev.Payload)))
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("no answer to %s: %w", op, ctx.Err())
	}
}

func CmdListen() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Authenticate and print every event until interrupted.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			subscribeAll(client, printEvent)
			if _, err := client.Auth(ctx, nil); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
	return cmd
}

func CmdConfig() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with literal keys redacted.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup.UnwrapConfig(cmd.Context())
			return printYaml(cfg.Redacted())
		},
	}
}
