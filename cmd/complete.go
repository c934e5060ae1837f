package cmd

import (
	"flag"

	"github.com/etnz/cashbook/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors complete flag values that have a known set of values.
var flagPredictors = map[string]complete.Predictor{
	"p":    predict.Set{"day", "week", "month", "quarter", "year"},
	"kind": predict.Set{"income", "expense", "investment"},
}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"config":      predict.Files("*.toml"),
			"ledger-file": predict.Files("*.jsonl"),
			"sqlite":      predict.Files("*.db"),
			"v":           predict.Nothing,
		},
	}
	for _, c := range Commands {
		fs := flag.NewFlagSet(c.Cmd.Name(), flag.ContinueOnError)
		c.Cmd.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			if p, ok := flagPredictors[f.Name]; ok {
				sub.Flags[f.Name] = p
				return
			}
			sub.Flags[f.Name] = predict.Something
		})
		if c.Cmd.Name() == "topic" {
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(topics)
		}
		root.Sub[c.Cmd.Name()] = sub
	}
	return root
}
