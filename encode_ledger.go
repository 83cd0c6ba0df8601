package fintidy

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"fintidy/date"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RecordType is a typed string identifying the kind of a ledger line.
type RecordType string

const (
	RecTransaction RecordType = "tx"
	RecAssignment  RecordType = "assign"
)

// txRecord is a specialized struct for decoding transaction lines, where
// amount and currency are separate fields.
type txRecord struct {
	Fingerprint string          `json:"fingerprint"`
	Date        date.Date       `json:"date"`
	Account     string          `json:"account"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Institution string          `json:"institution"`
	Hidden      bool            `json:"hidden"`
	Pending     bool            `json:"pending"`
	Source      string          `json:"source"`
	Extras      []Extra         `json:"extras"`
}

// DecodeLedger decodes a JSONL stream into a Ledger. Blank lines are skipped,
// unknown record kinds are an error.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var identifier struct {
			Record RecordType `json:"record"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(line), err)
		}

		switch identifier.Record {
		case RecTransaction:
			var temp txRecord
			if err := json.Unmarshal(line, &temp); err != nil {
				return nil, fmt.Errorf("invalid transaction line %q: %w", string(line), err)
			}
			tx := Transaction{
				Date:        temp.Date,
				Account:     temp.Account,
				Description: temp.Description,
				Category:    temp.Category,
				Amount:      M(temp.Amount, temp.Currency),
				Institution: temp.Institution,
				Hidden:      temp.Hidden,
				Pending:     temp.Pending,
				Source:      temp.Source,
				Extras:      temp.Extras,
			}
			if temp.Fingerprint != "" {
				tx.sealedAs(temp.Fingerprint)
			} else {
				tx.Seal()
			}
			ledger.Append(tx)
		case RecAssignment:
			var a Assignment
			if err := json.Unmarshal(line, &a); err != nil {
				return nil, fmt.Errorf("invalid assignment line %q: %w", string(line), err)
			}
			if a.Fingerprint == "" {
				return nil, fmt.Errorf("assignment without fingerprint in line %q", string(line))
			}
			ledger.Assign(a)
		default:
			return nil, fmt.Errorf("unknown ledger record: %q", identifier.Record)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	return ledger, nil
}

// EncodeTransaction writes a single transaction line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	var obj jsonObjectWriter
	obj.Append("record", RecTransaction)
	obj.Append("fingerprint", tx.ContentKey())
	obj.Append("date", tx.Date)
	obj.Optional("account", tx.Account)
	obj.Append("description", tx.Description)
	obj.Optional("category", tx.Category)
	obj.EmbedFrom(tx.Amount)
	obj.Optional("institution", tx.Institution)
	obj.Optional("hidden", tx.Hidden)
	obj.Optional("pending", tx.Pending)
	obj.Optional("source", tx.Source)
	if len(tx.Extras) > 0 {
		obj.Append("extras", tx.Extras)
	}
	return writeLine(w, &obj)
}

// EncodeAssignment writes a single assignment line.
func EncodeAssignment(w io.Writer, a Assignment) error {
	var obj jsonObjectWriter
	obj.Append("record", RecAssignment)
	obj.Append("fingerprint", a.Fingerprint)
	obj.Append("category", a.Category)
	obj.Append("origin", a.Origin)
	if !a.On.IsZero() {
		obj.Append("on", a.On)
	}
	return writeLine(w, &obj)
}

// EncodeLedger writes the whole ledger in canonical form: transactions in
// ledger order, then assignments sorted by fingerprint.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for tx := range l.Transactions() {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	for _, a := range l.Assignments() {
		if err := EncodeAssignment(w, a); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, obj *jsonObjectWriter) error {
	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot marshal ledger record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write ledger record: %w", err)
	}
	return nil
}
