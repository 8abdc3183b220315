package main

import (
	"fmt"

	"voltdesk/internal/calc"
	"voltdesk/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newCalcCmd groups the engineering calculators.
func newCalcCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Engineering calculators (computed by the backend)",
	}
	cmd.AddCommand(newOhmsCmd(a), newRLCCmd(a))
	return cmd
}

func newOhmsCmd(a *app) *cobra.Command {
	var form calc.OhmsForm

	cmd := &cobra.Command{
		Use:     "ohms",
		Short:   "Ohm's law (V=IR, P=VI); give two of V, I, R",
		Example: `  voltdesk calc ohms --V 12 --R 4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			a.logger.Debug("ohms calculation", zap.String("V", form.V), zap.String("I", form.I), zap.String("R", form.R))

			res, err := calc.New(a.client()).Ohms(cmd.Context(), form)
			if err != nil {
				return err
			}
			p.result(res)
			if !res.OK {
				return fmt.Errorf("calculation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&form.V, "V", "", calc.LabelVoltage)
	cmd.Flags().StringVar(&form.I, "I", "", calc.LabelCurrent)
	cmd.Flags().StringVar(&form.R, "R", "", calc.LabelResistance)
	return cmd
}

func newRLCCmd(a *app) *cobra.Command {
	var flags calc.RLCForm

	cmd := &cobra.Command{
		Use:   "rlc",
		Short: "RLC impedance, series (직렬) or parallel (병렬)",
		Long: `Computes RLC impedance. Unset flags take the configured defaults
(R=100, L=0.01, C=0.0001, f=60, mode=직렬); pass an empty value to send null.`,
		Example: `  voltdesk calc rlc --R 50 --f 1000 --mode 병렬`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())

			form := calc.NewRLCForm(a.cfg.Calculator.RLC)
			set := cmd.Flags().Changed
			if set("R") {
				form.R = flags.R
			}
			if set("L") {
				form.L = flags.L
			}
			if set("C") {
				form.C = flags.C
			}
			if set("f") {
				form.F = flags.F
			}
			if set("mode") {
				switch flags.Mode {
				case config.ModeSeries, config.ModeParallel:
					form.Mode = flags.Mode
				default:
					return fmt.Errorf("invalid --mode %q (valid: %s, %s)", flags.Mode, config.ModeSeries, config.ModeParallel)
				}
			}
			a.logger.Debug("rlc calculation", zap.Any("form", form))

			res, err := calc.New(a.client()).RLC(cmd.Context(), form)
			if err != nil {
				return err
			}
			p.result(res)
			if !res.OK {
				return fmt.Errorf("calculation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.R, "R", "", calc.LabelRLCR)
	cmd.Flags().StringVar(&flags.L, "L", "", calc.LabelRLCL)
	cmd.Flags().StringVar(&flags.C, "C", "", calc.LabelRLCC)
	cmd.Flags().StringVar(&flags.F, "f", "", calc.LabelRLCF)
	cmd.Flags().StringVar(&flags.Mode, "mode", "", "직렬 (series) or 병렬 (parallel)")
	return cmd
}
