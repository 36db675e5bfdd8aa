// Command novadec is a thin wrapper around pkg/decoder: given a
// message-definition database and a raw log file, it decodes every
// frame in the log and writes the ASCII rendering of each one to
// <input>.asc, tallying per-message-id conversion counts the way
// app/convbin tallies per-message-type output counts.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/novatel/novadec/adapters/filesource"
	"github.com/novatel/novadec/internal/metrics"
	"github.com/novatel/novadec/internal/telemetry"
	"github.com/novatel/novadec/pkg/decoder"
	"github.com/novatel/novadec/pkg/encoder"
	"github.com/novatel/novadec/pkg/message"
	"github.com/novatel/novadec/pkg/schema/dbjson"
)

const prgname = "NOVADEC"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(prgname, flag.ContinueOnError)
	pushGateway := fs.String("push-gateway", "", "Prometheus pushgateway URL to report decode/encode counters to")
	verbose := fs.Bool("v", false, "trace header/body decode failures to stderr")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [options] database.json input.log\n", prgname)
		fs.PrintDefaults()
		return 1
	}
	dbPath, inputPath := fs.Arg(0), fs.Arg(1)

	db, err := dbjson.LoadFile(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", prgname, err)
		return 1
	}

	src, err := filesource.Open(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", prgname, err)
		return 1
	}
	defer src.Close()

	outPath := inputPath + ".asc"
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", prgname, err)
		return 1
	}
	defer out.Close()

	m := metrics.New(nil)
	log := telemetry.Discard()
	if *verbose {
		log = telemetry.Stderr(2)
	}

	dec := decoder.New(db, decoder.Config{EnableUnknown: true, Logger: log, Metrics: m})
	enc := encoder.New(db)
	enc.UseMetrics(m)

	counts := map[uint16]int{}
	var unknownFrames int

	for {
		res, err := dec.Next(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", prgname, err)
			return 1
		}
		switch res.Kind {
		case decoder.EndOfStream:
			printSummary(counts, unknownFrames, dec.Stats)
			if *pushGateway != "" {
				if err := pushCounters(*pushGateway, m); err != nil {
					fmt.Fprintf(os.Stderr, "%s: push-gateway: %v\n", prgname, err)
				}
			}
			return 0
		case decoder.FrameDecoded:
			counts[res.Header.MessageID]++
			frame, err := enc.Encode(res.Header, res.Body, message.ASCII)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: encode %s: %v\n", prgname, res.Header.MessageName, err)
				continue
			}
			if _, err := out.Write(frame); err != nil {
				fmt.Fprintf(os.Stderr, "%s: write: %v\n", prgname, err)
				return 1
			}
		case decoder.UnknownBytes:
			unknownFrames++
		case decoder.MessageDropped:
			// EnableUnknown is always true in this CLI; unreachable here.
		case decoder.NeedMoreData:
			// filesource is blocking; NeedMoreData is unreachable here.
		}
	}
}

func printSummary(counts map[uint16]int, unknownFrames int, stats message.Stats) {
	ids := make([]uint16, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Printf("%5d  %d\n", id, counts[id])
	}
	fmt.Printf("unknown frames: %d\n", unknownFrames)
	fmt.Printf("binary=%d short_binary=%d ascii=%d short_ascii=%d abbrev_ascii=%d nmea=%d\n",
		stats.BinaryMessages, stats.ShortBinaryMessages, stats.ASCIIMessages,
		stats.ShortASCIIMessages, stats.AbbrevASCIIMessages, stats.NMEAMessages)
}

func pushCounters(url string, m *metrics.Metrics) error {
	return push.New(url, "novadec").Collector(m.FramesDecoded).
		Collector(m.UnknownBytes).
		Collector(m.DecodeErrors).
		Collector(m.FramesEncoded).
		Push()
}
