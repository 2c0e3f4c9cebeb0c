package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// payloadFlags is the --data / --file pair shared by create and update.
type payloadFlags struct {
	data string
	file string
}

func (p *payloadFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&p.data, "data", "d", "", "JSON payload")
	fs.StringVarP(&p.file, "file", "f", "", "Read the JSON payload from a file (- for stdin)")
}

func (p *payloadFlags) read(stdin io.Reader) (json.RawMessage, error) {
	var raw []byte
	switch {
	case p.data != "" && p.file != "":
		return nil, errors.New("use either --data or --file, not both")
	case p.data != "":
		raw = []byte(p.data)
	case p.file == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading payload from stdin: %w", err)
		}
		raw = b
	case p.file != "":
		b, err := os.ReadFile(p.file)
		if err != nil {
			return nil, fmt.Errorf("reading payload: %w", err)
		}
		raw = b
	default:
		return nil, errors.New("a JSON payload is required (--data or --file)")
	}
	if !json.Valid(raw) {
		return nil, errors.New("payload is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func contentTypeArg(args []string, i int) (domain.ContentType, error) {
	if len(args) <= i {
		return "", errors.New("content type is required")
	}
	return domain.ParseContentType(args[i])
}

func completeContentTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(domain.ContentTypes))
	for _, ct := range domain.ContentTypes {
		out = append(out, string(ct))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
