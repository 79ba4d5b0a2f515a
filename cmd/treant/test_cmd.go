package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/forest"
)

type testCmdConfig struct {
	*rootCmdConfig
	modelInput string
	dataInput  string
	labelInput string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Report the mean squared error of a trained forest over a held-out set",
		Long:  `Route every record of a held-out dataset through a trained forest and report the mean squared error against its labels.`,
		Run: func(cmd *cobra.Command, args []string) {
			l := logger(config.verbose)
			if err := config.Validate(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			l.Logf("Reading dataset from %s (labels from %s)...", config.dataInput, config.labelInput)
			ff, err := openInput(config.dataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			lf, err := openInput(config.labelInput)
			if err != nil {
				ff.Close()
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			ds, err := dataset.ReadColumnar(ff, lf)
			ff.Close()
			lf.Close()
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
			f, err := forest.ReadJSON(context.Background(), mf, ds.Features())
			mf.Close()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}

			mse, err := forest.Test(context.Background(), f, ds)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing: %v\n", err)
				os.Exit(4)
			}
			fmt.Printf("%v\n", mse)
		},
	}
	cmd.Flags().StringVarP(&(config.modelInput), "model", "m", "", "path to a trained forest file (required)")
	cmd.Flags().StringVarP(&(config.dataInput), "features", "f", "", "path to the dataset's feature file, native columnar format (required)")
	cmd.Flags().StringVarP(&(config.labelInput), "labels", "l", "", "path to the sibling label file, one value per line (required)")
	return cmd
}

func (tc *testCmdConfig) Validate() error {
	if tc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	if tc.dataInput == "" {
		return fmt.Errorf("required features flag was not set")
	}
	if tc.labelInput == "" {
		return fmt.Errorf("required labels flag was not set")
	}
	return nil
}
