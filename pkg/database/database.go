// Package database is the ingest orchestration layer: it drives
// pkg/lexer's token stream through pkg/store's Builder in statement
// order, decodes each theorem's proof, verifies it, parses every
// expression's well-formedness with pkg/synparse, and seeds the
// propositional-connective database (pkg/propctor) before handing the
// finished store.Database to callers. After Ingest, only the opt-in
// ClassifyDuplicates changes it, by setting Duplicate flags.
package database

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fanzheng1729/hana/pkg/lexer"
	"github.com/fanzheng1729/hana/pkg/mmerr"
	"github.com/fanzheng1729/hana/pkg/oracle"
	"github.com/fanzheng1729/hana/pkg/propctor"
	"github.com/fanzheng1729/hana/pkg/proof"
	"github.com/fanzheng1729/hana/pkg/store"
)

// Database wraps the immutable fact store with the derived data ingest
// also produces: the propositional-connective database and per-assertion
// classification statistics, plus the logger every later phase (verify,
// search) reports through.
type Database struct {
	Store     *store.Database
	Propctors propctor.Propctors
	CtorDefs  lexer.CtorDefinitions
	Stats     Stats

	definitions map[string]*propctor.Definition
	log         logrus.FieldLogger
}

// Ingest reads a whole database source file and builds a Database: scan,
// parse statements, decode and verify every proof, parse every
// expression's well-formedness, classify assertions, and seed the
// propositional-connective database. A failure at the tokenizer, scope,
// or verifier level is fatal for the whole database (§7 Propagation);
// every such failure encountered is collected and returned together as
// one aggregate error rather than stopping at the first.
func Ingest(src []byte, log logrus.FieldLogger) (*Database, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	tokens, comments, err := lexer.Scan(src)
	if err != nil {
		return nil, errors.Wrap(err, "tokenize")
	}
	log.WithField("tokens", len(tokens)).WithField("comments", len(comments)).Debug("scanned source")

	b := store.NewBuilder()
	r := newReader(tokens, comments, b.DB)

	var result *multierror.Error
	if err := driveStatements(r, b, log); err != nil {
		result = multierror.Append(result, err)
	}

	db := &Database{
		Store: b.DB,
		log:   log,
	}

	cmds := lexer.ParseCommands(comments)
	db.CtorDefs = lexer.BuildCtorDefinitions(cmds)

	resolveSyntaxAxioms(db.Store)

	if err := parseWellFormedness(db.Store, log); err != nil {
		result = multierror.Append(result, err)
	}
	if err := verifyAll(db.Store, log); err != nil {
		result = multierror.Append(result, err)
	}

	Classify(db.Store)
	db.Stats = computeStats(db.Store)

	pc, defs, err := SeedPropctors(db.Store, db.CtorDefs, log)
	db.Propctors = pc
	db.definitions = defs
	if err != nil {
		result = multierror.Append(result, err)
	}

	if err := checkAllValid(db.Store, db.Propctors, log); err != nil {
		result = multierror.Append(result, err)
	}

	if result != nil {
		result.ErrorFormat = func(errs []error) string {
			msgs := make([]string, len(errs))
			for i, e := range errs {
				msgs[i] = e.Error()
			}
			return fmt.Sprintf("%d ingest error(s) occurred:\n\t%s", len(errs), joinLines(msgs))
		}
		return db, result
	}
	return db, nil
}

func joinLines(msgs []string) string {
	out := msgs[0]
	for _, m := range msgs[1:] {
		out += "\n\t" + m
	}
	return out
}

func verifyAll(db *store.Database, log logrus.FieldLogger) error {
	var result *multierror.Error
	for _, a := range db.Assertions {
		if err := proof.VerifyAssertion(a, db.Pool); err != nil {
			log.WithError(err).WithField("label", a.Label).Error("proof verification failed")
			result = multierror.Append(result, err)
		}
	}
	if result != nil {
		return result
	}
	return nil
}

func checkAllValid(db *store.Database, pc propctor.Propctors, log logrus.FieldLogger) error {
	label, ok := oracle.CheckAllValid(pc, db.Assertions, db.Primitive)
	if ok {
		return nil
	}
	err := &mmerr.LogicError{Label: label}
	log.WithError(err).Error("propositional integrity check failed")
	return err
}
