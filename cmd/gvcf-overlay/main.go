package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/strandbio/overlay/encoding/gvcf"
	"github.com/strandbio/overlay/overlay"
)

var outDir = flag.String("out", ".", "Directory the mutated VCF is written to; created if absent")

func gvcfOverlayUsage() {
	fmt.Printf("Usage: %s [OPTIONS] basepath donorpath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = gvcfOverlayUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 2 {
		log.Fatalf("Expected exactly two positional arguments (basepath and donorpath); please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	base, err := gvcf.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("open base %s: %v", flag.Arg(0), err)
	}
	defer func() { _ = base.Close() }()
	donor, err := gvcf.Open(flag.Arg(1))
	if err != nil {
		log.Fatalf("open donor %s: %v", flag.Arg(1), err)
	}
	defer func() { _ = donor.Close() }()

	sample, m, _, err := overlay.Overlay(base, donor)
	if err != nil {
		log.Fatalf("%v", err)
	}
	path, err := gvcf.WriteFile(*outDir, sample, m)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("wrote %d record(s) to %s", m.Len(), path)
}
