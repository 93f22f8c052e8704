package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/silver-potato-kebab/trade-tracker/internal/api/request"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
)

var validate = newValidator()

// newValidator reports fields by their JSON name so messages match the request body.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateAddEntry validates a manual ledger entry.
//
// Required fields:
//   - openDate: YYYY-MM-DD
//   - ticker, longShort, openShares, cost: non-empty
//
// Every non-empty raw field must also pass the keystroke rule of its grid
// column, so a manual entry can hold nothing the editor would refuse.
func ValidateAddEntry(req request.AddEntryRequest, kinds map[string]Kind) error {
	fields := structErrors(validate.Struct(req))

	for column, value := range req.Record().Fields() {
		if value == "" {
			continue
		}
		if _, done := fields[column]; done {
			continue
		}
		if kind := kinds[column]; !Accepts(kind, value) {
			fields[column] = fmt.Sprintf("%q is not a valid %s value", value, kind)
		}
	}

	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// ValidateOpenEditor validates a double-click event sent by a client.
func ValidateOpenEditor(req request.OpenEditorRequest) error {
	fields := structErrors(validate.Struct(req))
	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// ValidateSaveSnapshot validates a snapshot creation request.
func ValidateSaveSnapshot(req request.SaveSnapshotRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	fields := structErrors(validate.Struct(req))
	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// ValidatePositionSize validates position sizing inputs.
// The stop price must sit below the share price.
func ValidatePositionSize(req request.PositionSizeRequest) error {
	fields := structErrors(validate.Struct(req))
	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// structErrors flattens validator output into field -> message. The JSON names
// of AddEntryRequest are mapped back to grid column names.
func structErrors(err error) map[string]string {
	fields := make(map[string]string)
	if err == nil {
		return fields
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["request"] = err.Error()
		return fields
	}

	for _, fe := range verrs {
		name := fe.Field()
		if column, ok := entryColumns[name]; ok {
			name = column
		}
		fields[name] = describe(fe)
	}
	return fields
}

var entryColumns = map[string]string{
	"openDate":    model.ColOpenDate,
	"ticker":      model.ColTicker,
	"longShort":   model.ColLongShort,
	"openShares":  model.ColOpenShares,
	"openPrice":   model.ColOpenPrice,
	"cost":        model.ColCost,
	"closeDate":   model.ColCloseDate,
	"closeShares": model.ColCloseShares,
	"closePrice":  model.ColClosePrice,
	"proceeds":    model.ColProceeds,
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	case "ltfield":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("must satisfy %s", fe.Tag())
	}
}
