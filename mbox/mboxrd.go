package mbox

import (
	"errors"
	"fmt"
	"io"

	mboxlib "github.com/emersion/go-mbox"

	"github.com/dhcgn/spool-pager/model"
)

// ReadMboxrd reads a spool in strict mbox form: every line starting with
// "From " opens a new message. The envelope line is consumed by the reader
// and is not part of the returned messages.
func ReadMboxrd(r io.Reader) ([]model.Message, error) {
	reader := mboxlib.NewReader(r)

	var messages []model.Message
	for idx := 0; ; idx++ {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return messages, nil
			}
			return nil, fmt.Errorf("message %d: %w", idx, err)
		}

		raw, err := io.ReadAll(msgReader)
		if err != nil {
			return nil, fmt.Errorf("message %d read: %w", idx, err)
		}
		messages = append(messages, model.Message(raw))
	}
}
