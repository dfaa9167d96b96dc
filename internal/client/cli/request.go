package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Request sends a raw API call. args[0] is the path; for methods that take
// a body the rest of args is the JSON document, and when it is missing the
// body is read interactively (an empty answer sends no body).
func (a *App) Request(ctx context.Context, method string, args []string) error {
	withBody, ok := requestMethods[method]
	if !ok {
		return fmt.Errorf("unsupported method %s", method)
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: %s <path>", strings.ToLower(method))
	}
	path := args[0]

	var body any
	if withBody {
		if doc := strings.Join(args[1:], " "); doc != "" {
			if !json.Valid([]byte(doc)) {
				return fmt.Errorf("body is not valid JSON")
			}
			body = json.RawMessage(doc)
		} else {
			raw, err := GetJSONBody(a.reader, a.out)
			if err != nil {
				return err
			}
			if raw != nil {
				body = raw
			}
		}
	}

	resp, err := a.api.Do(ctx, method, path, body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, resp.Body, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(resp.Body)
	}
	printlnFn(fmt.Sprintf("%d %s", resp.StatusCode, pretty.String()))
	return nil
}
