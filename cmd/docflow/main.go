package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-docflow/pkg/document"
	"github.com/goliatone/go-docflow/pkg/fill"
	"github.com/goliatone/go-docflow/pkg/loader"
	"github.com/goliatone/go-docflow/pkg/validation"
)

func main() {
	formPath := flag.String("form", "", "form definition file (.json, .yaml)")
	workflowPath := flag.String("workflow", "", "workflow definition file (.json, .yaml)")
	sanitize := flag.Bool("sanitize", false, "strip markup from labels and descriptions")
	interactive := flag.Bool("fill", false, "prompt for document data against the form")
	output := flag.String("output", "", "output file for filled document (stdout if empty)")
	flag.Parse()

	if *formPath == "" && *workflowPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	var opts []loader.Option
	if *sanitize {
		opts = append(opts, loader.WithSanitizer())
	}
	definitions := loader.New(opts...)

	if *workflowPath != "" {
		wf, err := definitions.LoadWorkflow(*workflowPath)
		if err != nil {
			fatalFindings("workflow", *workflowPath, err)
		}
		fmt.Printf("workflow %q: %d phase(s), %d transition(s), valid\n",
			wf.ID(), len(wf.Phases()), len(wf.Transitions()))
	}

	if *formPath == "" {
		return
	}

	form, err := definitions.LoadForm(*formPath)
	if err != nil {
		fatalFindings("form", *formPath, err)
	}
	fmt.Printf("form %q: %d field(s), valid\n", form.ID(), len(form.Fields()))

	if !*interactive {
		return
	}

	filler := fill.New(fill.NewSurveyDriver())
	data, err := filler.Fill(context.Background(), form)
	if err != nil {
		log.Fatalf("fill aborted: %v", err)
	}

	doc := document.New("", form.ID(), "")
	for key, value := range data {
		doc.Data[key] = value
	}
	if violations := document.Validate(doc, &form); len(violations) > 0 {
		for _, violation := range violations {
			fmt.Fprintf(os.Stderr, "invalid: %v\n", violation)
		}
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatalf("encode document: %v", err)
	}
	if *output != "" {
		if err := os.WriteFile(*output, encoded, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("document written to %s\n", *output)
		return
	}
	fmt.Println(string(encoded))
}

func fatalFindings(kind, path string, err error) {
	var findings validation.Findings
	if errors.As(err, &findings) {
		fmt.Fprintf(os.Stderr, "%s %s failed validation:\n", kind, path)
		for _, finding := range findings {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", finding.Path, finding.Rule)
		}
		os.Exit(1)
	}
	log.Fatalf("load %s: %v", kind, err)
}
