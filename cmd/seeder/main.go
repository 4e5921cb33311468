// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	outputDir = flag.String("output", "./inbox", "Directory to seed with sample study material")
)

func main() {
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	fmt.Printf("Seeding sample study material to: %s\n", *outputDir)

	samples := []struct {
		filename string
		content  string
	}{
		{
			filename: "photosynthesis_notes.md",
			content: `# Photosynthesis

Photosynthesis is the process by which plants convert light energy into chemical energy. The process takes place in the chloroplast, an organelle found in plant cells.

## Light-Dependent Reactions

The light-dependent reactions occur in the thylakoid membrane. Chlorophyll absorbs light energy, which drives the splitting of water molecules and releases oxygen as a byproduct. ATP and NADPH are produced during this stage.

## The Calvin Cycle

The Calvin Cycle is the set of light-independent reactions that fix carbon dioxide into glucose. It uses the ATP and NADPH produced by the light-dependent reactions. The cycle takes place in the stroma of the chloroplast.
`,
		},
		{
			filename: "cell_respiration.md",
			content: `# Cellular Respiration

Cellular respiration is the metabolic process that converts glucose into ATP, the energy currency of the cell. It occurs in three main stages: glycolysis, the Krebs cycle, and oxidative phosphorylation.

## Glycolysis

Glycolysis is the breakdown of one glucose molecule into two pyruvate molecules. It happens in the cytoplasm and produces a net gain of two ATP molecules.

## The Krebs Cycle

The Krebs cycle, also known as the citric acid cycle, occurs in the mitochondrial matrix. Each turn of the cycle releases carbon dioxide and captures high-energy electrons in NADH and FADH2.

## Oxidative Phosphorylation

The electron transport chain uses the captured electrons to pump protons across the inner mitochondrial membrane. The resulting gradient drives ATP synthase, producing the bulk of the cell's ATP.
`,
		},
		{
			filename: "supply_and_demand.md",
			content: `# Supply and Demand

Supply and demand is the fundamental model of price determination in a market economy. The model describes how the price of a good settles where the quantity supplied equals the quantity demanded.

## The Demand Curve

The demand curve shows the relationship between price and the quantity consumers are willing to buy. Demand typically falls as price rises, a relationship known as the law of demand.

## The Supply Curve

The supply curve shows the quantity producers are willing to sell at each price. Higher prices generally induce more production.

## Market Equilibrium

Market equilibrium is the point where the two curves intersect. A price above equilibrium creates a surplus; a price below it creates a shortage. In both cases market forces push the price back toward equilibrium.
`,
		},
		{
			filename: "french_revolution.txt",
			content: `The French Revolution

The French Revolution was a period of radical political and social change in France between 1789 and 1799. It began with the financial crisis of the monarchy and the summoning of the Estates-General.

The storming of the Bastille on 14 July 1789 marked the symbolic start of the revolution. The National Assembly adopted the Declaration of the Rights of Man and of the Citizen in August of that year, asserting that sovereignty resides in the nation rather than the king.

The revolution passed through increasingly radical phases. The monarchy was abolished in 1792 and the First French Republic declared. The Reign of Terror under the Committee of Public Safety saw thousands executed. The period ended when Napoleon Bonaparte seized power in the coup of 18 Brumaire in 1799.
`,
		},
		{
			filename: "http_basics.md",
			content: `# HTTP Fundamentals

HTTP is the application-layer protocol that underpins the web. A client sends a request to a server, and the server returns a response. Each request names a method, a path, and a set of headers.

## Methods

GET retrieves a resource without side effects. POST submits data and may change server state. PUT replaces a resource, and DELETE removes one. Idempotency means repeating a request has the same effect as sending it once; GET, PUT and DELETE are idempotent while POST is not.

## Status Codes

Status codes group responses by outcome: 2xx for success, 3xx for redirection, 4xx for client errors, and 5xx for server errors. A 404 means the resource was not found; a 429 means the client has sent too many requests.
`,
		},
	}

	for _, sample := range samples {
		path := filepath.Join(*outputDir, sample.filename)
		if err := os.WriteFile(path, []byte(sample.content), 0644); err != nil {
			log.Printf("Failed to write %s: %v", path, err)
			continue
		}
		fmt.Printf("  wrote %s\n", path)
	}

	fmt.Printf("Done. Point inbox-watcher at %s to ingest the samples.\n", *outputDir)
}
