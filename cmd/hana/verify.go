package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fanzheng1729/hana/pkg/database"
)

var verifyFile string

func newVerifyCmd() *cobra.Command {
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Ingest and verify a database, reporting every proof, scope, and encoding error",
		Long: `verify reads a source file, runs it through the tokenizer, statement
parser, and compressed-proof verifier, and reports the aggregate of every
error found. It never runs propositional search.`,
		RunE: runVerify,
	}
	verifyCmd.Flags().StringVarP(&verifyFile, "file", "f", "", "path to the database source file")
	if err := verifyCmd.MarkFlagRequired("file"); err != nil {
		log.Panic(err.Error())
	}
	return verifyCmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(verifyFile)
	if err != nil {
		return err
	}

	db, err := database.Ingest(src, log.StandardLogger())
	if err != nil {
		log.WithError(err).Error("ingest reported errors")
		return err
	}

	log.WithField("assertions", db.Stats.Assertions).
		WithField("axioms", db.Stats.Axioms).
		WithField("theorems", db.Stats.Theorems).
		WithField("syntax_axioms", db.Stats.SyntaxAxioms).
		WithField("trivial", db.Stats.Trivial).
		WithField("duplicate", db.Stats.Duplicate).
		WithField("nouse", db.Stats.NoUse).
		WithField("nonewproof", db.Stats.NoNewProof).
		WithField("propositional", db.Stats.Propositional).
		Info("database verified clean")
	return nil
}
