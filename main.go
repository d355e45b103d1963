// Command go-implicit is a small driver around the resolver: it wires the
// demo printer registry and lets you resolve type keys, list providers, run
// the worked example, or serve the debug endpoints.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oklaren/go-implicit/bootstrap"
	"github.com/oklaren/go-implicit/config"
	"github.com/oklaren/go-implicit/introspect"
	"github.com/oklaren/go-implicit/logging"
	"github.com/oklaren/go-implicit/printer"
	"github.com/oklaren/go-implicit/resolver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type appFlags struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	flags := &appFlags{}

	root := &cobra.Command{
		Use:           "go-implicit",
		Short:         "Type-class style instance resolution engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "YAML settings file (overrides env)")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load")

	root.AddCommand(newResolveCmd(flags))
	root.AddCommand(newProvidersCmd(flags))
	root.AddCommand(newDemoCmd(flags))
	root.AddCommand(newServeCmd(flags))
	return root
}

// setup builds config, logger, and the demo-wired resolver.
func setup(flags *appFlags) (*config.Config, *zap.Logger, *resolver.Resolver, error) {
	var cfg *config.Config
	if flags.configFile != "" {
		loaded, err := config.LoadFile(flags.configFile)
		if err != nil {
			return nil, nil, nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Load(flags.envFile)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	policy, err := resolver.ParseAmbiguityPolicy(cfg.Resolver.Ambiguity)
	if err != nil {
		return nil, nil, nil, err
	}

	res := resolver.New(
		resolver.WithMaxDepth(cfg.Resolver.MaxDepth),
		resolver.WithAmbiguityPolicy(policy),
		resolver.WithLogger(log.Named("resolver")),
	)

	reg := bootstrap.NewRegistry(res, log.Named("bootstrap"))
	for _, m := range printer.Modules() {
		if err := reg.Apply(m); err != nil {
			return nil, nil, nil, err
		}
	}
	if err := reg.Boot(); err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, res, nil
}

func newResolveCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <key>...",
		Short: "Resolve one or more type keys (e.g. 'Option[List[Int]]', 'Mapper[Int, _]')",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, res, err := setup(flags)
			if err != nil {
				return err
			}
			for _, raw := range args {
				key, err := resolver.ParseKey(raw)
				if err != nil {
					return err
				}
				inst, err := res.Resolve(key)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%T)\n", raw, inst.Key, inst.Value)
			}
			return nil
		},
	}
}

func newProvidersCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List registered providers in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, res, err := setup(flags)
			if err != nil {
				return err
			}
			for _, info := range res.Providers() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", info.Kind, info.Key)
			}
			return nil
		},
	}
}

func newDemoCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the worked example: print Some([1, 3, 6]) through Option[List[Int]]",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, res, err := setup(flags)
			if err != nil {
				return err
			}
			inst, err := res.Resolve(resolver.Key("Option", resolver.Key("List", resolver.Key("Int"))))
			if err != nil {
				return err
			}
			p, err := resolver.As[printer.Printer](inst)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Print(printer.Some([]any{1, 3, 6})))
			return nil
		},
	}
}

func newServeCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the debug endpoints for the demo registry",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, res, err := setup(flags)
			if err != nil {
				return err
			}
			return introspect.New(res, log.Named("debug")).ListenAndServe(cfg.Debug.Addr)
		},
	}
}
