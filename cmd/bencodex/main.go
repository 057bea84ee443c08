// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command bencodex encodes JSON into canonical Bencodex bytes and
// decodes Bencodex bytes back into JSON.
//
//	bencodex encode          < values.json > out.bx
//	bencodex decode          < out.bx      > values.json
//	bencodex decode -simd    < out.bx      > values.json
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/sneller-labs/bencodex/bencodex"
	"github.com/sneller-labs/bencodex/bencodexjson"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	simd := fs.Bool("simd", false, "use the SIMD two-stage decoder instead of the scalar one (decode only)")
	binary := fs.String("binary", "hex", "binary string JSON rendering: hex or base64")
	limitsPath := fs.String("limits", "", "path to a YAML file of decode resource limits")
	fs.Parse(os.Args[2:])

	enc, err := parseBinaryEncoding(*binary)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	lim, err := loadLimits(*limitsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)

	switch cmd {
	case "encode":
		err = runEncode(in, out)
	case "decode":
		err = runDecode(in, out, *simd, lim, enc)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		reportErr(err)
		os.Exit(1)
	}
	if err := out.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bencodex encode|decode [-simd] [-binary hex|base64] [-limits file.yaml]")
}

func parseBinaryEncoding(s string) (bencodexjson.BinaryEncoding, error) {
	switch s {
	case "hex", "":
		return bencodexjson.Hex, nil
	case "base64":
		return bencodexjson.Base64, nil
	default:
		return 0, fmt.Errorf("bencodex: unknown -binary value %q (want hex or base64)", s)
	}
}

func loadLimits(path string) (bencodex.Limits, error) {
	if path == "" {
		return bencodex.Limits{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return bencodex.Limits{}, fmt.Errorf("bencodex: reading limits file: %w", err)
	}
	var lim bencodex.Limits
	if err := yaml.Unmarshal(data, &lim); err != nil {
		return bencodex.Limits{}, fmt.Errorf("bencodex: parsing limits file: %w", err)
	}
	return lim, nil
}

func runEncode(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	v, err := bencodexjson.Unmarshal(data, bencodexjson.Options{})
	if err != nil {
		return fmt.Errorf("bencodex: parsing JSON: %w", err)
	}
	return bencodex.EncodeTo(out, v)
}

func runDecode(in io.Reader, out io.Writer, simd bool, lim bencodex.Limits, enc bencodexjson.BinaryEncoding) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	var v bencodex.Value
	if simd {
		v, err = bencodex.DecodeSIMDLimited(data, lim)
	} else {
		v, err = bencodex.DecodeLimited(data, lim)
	}
	if err != nil {
		return err
	}
	jsonData, err := bencodexjson.Marshal(v, bencodexjson.Options{BinaryEncoding: enc})
	if err != nil {
		return err
	}
	_, err = out.Write(jsonData)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, "\n")
	return err
}

// reportErr prints err to stderr, including the decode Kind and
// offset when err is a *bencodex.Error, mirroring cmd/dump's
// fmt.Fprintf(os.Stderr, ...) pattern.
func reportErr(err error) {
	if kind, ok := bencodex.KindOf(err); ok {
		fmt.Fprintf(os.Stderr, "bencodex: %s: %s\n", kind, err)
		return
	}
	fmt.Fprintf(os.Stderr, "bencodex: %s\n", err)
}
