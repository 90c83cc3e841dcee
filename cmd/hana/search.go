package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fanzheng1729/hana/pkg/database"
	"github.com/fanzheng1729/hana/pkg/proof"
	"github.com/fanzheng1729/hana/pkg/search"
	"github.com/fanzheng1729/hana/pkg/store"
)

// defaultExploration is the standard UCB1 exploration constant, applied
// uniformly to both players absent a reason to weight one side higher.
var defaultExploration = search.Exploration{1.41421356, 1.41421356}

var (
	searchFile     string
	searchMaxTerms int
	searchMaxSize  int
	searchStaged   bool
)

func newSearchCmd() *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Ingest a database and search for proofs of every propositional theorem lacking one",
		Long: `search ingests a database exactly as verify does, then runs the
AND-OR proof search over every propositional theorem that does not already
carry a proof. A theorem that exhausts its search budget is reported but
does not abort the run; the command's exit code still reflects the worst
phase failure, including search budget exhaustion.`,
		RunE: runSearch,
	}
	searchCmd.Flags().StringVarP(&searchFile, "file", "f", "", "path to the database source file")
	searchCmd.Flags().IntVar(&searchMaxTerms, "max-terms", 64, "maximum synthesized terms per search context")
	searchCmd.Flags().IntVar(&searchMaxSize, "max-size", 4096, "maximum search-tree size per theorem")
	searchCmd.Flags().BoolVar(&searchStaged, "staged", false, "enable staged free-variable synthesis")
	if err := searchCmd.MarkFlagRequired("file"); err != nil {
		log.Panic(err.Error())
	}
	return searchCmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(searchFile)
	if err != nil {
		return err
	}

	db, err := database.Ingest(src, log.StandardLogger())
	if err != nil {
		log.WithError(err).Error("ingest reported errors")
		return err
	}

	results, err := db.SearchAll(searchMaxTerms, searchMaxSize, searchStaged, defaultExploration, log.StandardLogger())
	found := 0
	for _, r := range results {
		if !r.Found {
			continue
		}
		found++
		letters, encErr := proof.EncodeCompressed(r.Proof, compressedLabels(r.Proof))
		if encErr != nil {
			log.WithError(encErr).WithField("label", r.Label).Warn("could not encode found proof")
			continue
		}
		log.WithField("label", r.Label).WithField("proof", letters).Debug("search found a proof")
	}
	log.WithField("attempted", len(results)).WithField("found", found).Info("search finished")
	if err != nil {
		return err
	}
	return nil
}

// compressedLabels builds a compressed-proof label list covering every
// HYP/THM step proofSteps references, in first-occurrence order. This
// differs from the source format's stored compressed proofs, whose label
// list starts with the theorem's mandatory hypotheses.
func compressedLabels(proofSteps []store.Step) []*proof.LabelRef {
	seen := make(map[string]bool)
	var labels []*proof.LabelRef
	for _, s := range proofSteps {
		switch s.Tag {
		case store.StepHyp:
			if !seen[s.Hyp.Label] {
				seen[s.Hyp.Label] = true
				labels = append(labels, proof.HypRef(s.Hyp))
			}
		case store.StepThm:
			if !seen[s.Thm.Label] {
				seen[s.Thm.Label] = true
				labels = append(labels, proof.ThmRef(s.Thm))
			}
		}
	}
	return labels
}
