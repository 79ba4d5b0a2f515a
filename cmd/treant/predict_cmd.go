package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/forest"
)

type predictCmdConfig struct {
	*rootCmdConfig
	modelInput string
	dataInput  string
	output     string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict labels for a dataset using a trained forest",
		Long:  `Route every record of a dataset through a trained forest and write one prediction per line.`,
		Run: func(cmd *cobra.Command, args []string) {
			l := logger(config.verbose)
			if err := config.Validate(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			l.Logf("Reading features from %s...", config.dataInput)
			ff, err := openInput(config.dataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			features, rows, err := dataset.ReadColumnarFeatures(ff)
			ff.Close()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			l.Logf("Reading model from %s...", config.modelInput)
			mf, err := openInput(config.modelInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			f, err := forest.ReadJSON(context.Background(), mf, features)
			mf.Close()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}

			out, err := openOutput(config.output)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			defer out.Close()
			l.Logf("Predicting %d record(s)...", len(rows))
			for _, row := range rows {
				p, err := forest.Predict(context.Background(), f, row)
				if err != nil {
					fmt.Fprintf(os.Stderr, "predicting: %v\n", err)
					os.Exit(5)
				}
				fmt.Fprintf(out, "%v\n", p)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.modelInput), "model", "m", "", "path to a trained forest file (required)")
	cmd.Flags().StringVarP(&(config.dataInput), "features", "f", "", "path to the dataset's feature file, native columnar format (required)")
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to write one prediction per line (defaults to STDOUT)")
	return cmd
}

func (pc *predictCmdConfig) Validate() error {
	if pc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	if pc.dataInput == "" {
		return fmt.Errorf("required features flag was not set")
	}
	return nil
}
