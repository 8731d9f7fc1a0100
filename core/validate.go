package core

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"openkeep/database"
	"openkeep/errs"
	"openkeep/logger"
	"openkeep/models"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notecolor", func(fl validator.FieldLevel) bool {
		return models.IsValidColor(fl.Field().String())
	})
	return v
}

// validationError turns a validator failure into an InvalidArgument error naming the
// first offending field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errs.Wrap(errs.InvalidArgument, fmt.Sprintf("invalid %s: %v", fe.Field(), fe.Value()), err)
	}
	return errs.Wrap(errs.InvalidArgument, "invalid input", err)
}

// classify maps storage errors onto the application taxonomy. Already coded errors pass
// through unchanged.
func classify(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	var coded *errs.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return errs.Wrap(errs.NotFound, entity+" not found", err)
	case database.IsUniqueViolation(err):
		return errs.Wrap(errs.Conflict, entity+" already exists", err)
	case database.IsForeignKeyViolation(err):
		return errs.Wrap(errs.InvalidArgument, "unknown label id", err)
	}
	logger.Error("%s: %v", op, err)
	return errs.Wrap(errs.Internal, "", err)
}
