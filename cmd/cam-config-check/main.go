// cmd/cam-config-check/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sua-org/cam-config/internal/capability"
	"github.com/sua-org/cam-config/internal/descriptor"
	"github.com/sua-org/cam-config/internal/loader"
	"github.com/sua-org/cam-config/internal/source"
)

var (
	configFile  string
	jsonOutput  bool
	skipInvalid bool
	capFlags    []string
)

var rootCmd = &cobra.Command{
	Use:   "cam-config-check",
	Short: "Valida a lista de câmeras e mostra os descriptors",
	Long: `Lê o arquivo de câmeras, aplica validação, defaults e normalização
e imprime o resultado. Sai com código 1 se algum entry for inválido.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		caps, err := capabilities()
		if err != nil {
			return err
		}
		return check(cmd.OutOrStdout(), source.FileSource{Path: configFile}, caps)
	},
}

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Mostra os sinais de hardware usados na resolução de defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		caps, err := capabilities()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.ReplaceAll(capability.Describe(caps), " ", "\n"))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "arquivo de câmeras (default $CAMCFG_FILE ou cameras.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&skipInvalid, "skip-invalid", false, "ignora entries inválidos em vez de abortar")
	rootCmd.PersistentFlags().StringSliceVar(&capFlags, "cap", nil,
		"força capacidades (vaapi, cuda, rpi3); sem a flag usa o ambiente")
	rootCmd.AddCommand(capabilitiesCmd)
}

func main() {
	_ = godotenv.Load()
	if configFile == "" {
		configFile = getenv("CAMCFG_FILE", "cameras.yaml")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// capabilities monta o provider: flags --cap viram um Static, senão ambiente.
func capabilities() (capability.Provider, error) {
	if len(capFlags) == 0 {
		return capability.Env{}, nil
	}
	names := map[string]capability.Name{
		"vaapi": capability.VAAPISupported,
		"cuda":  capability.CUDASupported,
		"rpi3":  capability.RaspberryPi3,
	}
	caps := capability.Static{}
	for _, f := range capFlags {
		n, ok := names[strings.ToLower(strings.TrimSpace(f))]
		if !ok {
			return nil, fmt.Errorf("capacidade desconhecida %q (use vaapi, cuda ou rpi3)", f)
		}
		caps[n] = true
	}
	return caps, nil
}

func check(w io.Writer, src source.Source, caps capability.Provider) error {
	raws, err := src.Load(context.Background())
	if err != nil {
		return err
	}

	cams, loadErr := loader.New(caps, loader.Options{SkipInvalid: skipInvalid}).Load(raws)
	if loadErr != nil && len(cams) == 0 {
		return loadErr
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cams); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	} else {
		printTable(w, cams)
	}
	return loadErr
}

func printTable(w io.Writer, cams []*descriptor.Camera) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMQTT_NAME\tURL\tCODEC\tHWACCEL\tZONES")
	fmt.Fprintln(tw, "----\t---------\t---\t-----\t-------\t-----")

	for _, c := range cams {
		codec := strings.Join(c.CodecArgs(), " ")
		if codec == "" {
			codec = "-"
		}
		hw := strings.Join(c.HWAccelArgs(), " ")
		if hw == "" {
			hw = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			c.Name(),
			c.MQTTName(),
			c.RedactedStreamURL(),
			codec,
			hw,
			len(c.Zones()),
		)
	}
	tw.Flush()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
