package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-ecdh/internal/config"
	"github.com/smallyu/go-ecdh/internal/crypto/keys"
)

func keygenCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair",
		Long: `Generates a key pair on the configured curve. The private scalar is only
written to the key file; the public point is printed in SEC1 form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			curve, err := cfg.BuildCurve()
			if err != nil {
				return err
			}

			kp, err := keys.Generate(curve, nil)
			if err != nil {
				return err
			}
			defer kp.Destroy()

			if out != "" {
				if err := config.SaveKey(out, kp); err != nil {
					return err
				}
				log.Infof("wrote %s key to %s", curve, out)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "curve:  %s\npublic: %s\n", curve, hex.EncodeToString(kp.Public().Bytes()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the key pair to this file")
	return cmd
}
