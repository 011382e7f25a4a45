package main

import (
	"fmt"
	"io"
	"os"

	"github.com/oy3o/chunktext"
	"github.com/oy3o/chunktext/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	inPath  string
	outPath string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode UTF-8 text into the wire format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readUTF8(cmd)
		if err != nil {
			return err
		}
		out, closeOut, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOut()

		n, err := codec.WriteTo(cmd.Context(), text, out)
		if err != nil {
			return err
		}
		logger.Debug("encoded", zap.Int("units", text.Len()), zap.Int64("bytes", n))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode the wire format back to UTF-8",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, closeIn, err := openInput(cmd)
		if err != nil {
			return err
		}
		defer closeIn()

		text, err := codec.ReadFrom(cmd.Context(), in)
		if err != nil {
			return err
		}
		defer text.Close()
		return writeText(cmd, text)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [key]",
	Short: "Show the layout of an encoded text, from input or from the store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			hdr chunktext.Header
			err error
		)
		if len(args) == 1 {
			s, serr := openStore()
			if serr != nil {
				return serr
			}
			hdr, err = s.Inspect(args[0])
		} else {
			in, closeIn, oerr := openInput(cmd)
			if oerr != nil {
				return oerr
			}
			defer closeIn()
			hdr, err = codec.Inspect(in)
		}
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(map[string]any{
			"total_length":  hdr.TotalLength,
			"inline":        hdr.Inline,
			"chunk_size":    hdr.ChunkSize,
			"chunk_count":   hdr.ChunkCount,
			"encoded_bytes": codec.EncodedSize(hdr.TotalLength),
		})
	},
}

var putCmd = &cobra.Command{
	Use:   "put <key>",
	Short: "Store UTF-8 text under a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		text, err := readUTF8(cmd)
		if err != nil {
			return err
		}
		return s.Save(cmd.Context(), args[0], text)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the text stored under a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		text, err := s.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer text.Close()
		return writeText(cmd, text)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove the text stored under a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		return s.Delete(args[0])
	},
}

func init() {
	for _, cmd := range []*cobra.Command{encodeCmd, decodeCmd, inspectCmd, putCmd} {
		cmd.Flags().StringVarP(&inPath, "in", "i", "-", "input file, - for stdin")
	}
	for _, cmd := range []*cobra.Command{encodeCmd, decodeCmd, getCmd} {
		cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	}
}

func openStore() (*store.Store, error) {
	return store.New(cfg.Store.Dir, codec, store.Options{
		CacheSize: cfg.Store.CacheSize,
		Workers:   cfg.Store.Workers,
		Logger:    logger,
	})
}

func openInput(cmd *cobra.Command) (io.Reader, func(), error) {
	if inPath == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(inPath)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	if outPath == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func readUTF8(cmd *cobra.Command) (chunktext.Chars, error) {
	in, closeIn, err := openInput(cmd)
	if err != nil {
		return nil, err
	}
	defer closeIn()
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return chunktext.FromString(string(data)), nil
}

func writeText(cmd *cobra.Command, text chunktext.CharReader) error {
	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	_, err = chunktext.WriteUTF8(out, text)
	return err
}
