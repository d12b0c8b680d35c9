package progress

import (
	"fmt"
	"reflect"
	"strings"
)

var contextDocumentType = reflect.TypeOf(contextDocument{})

// KnownField reports whether path names a field of the context document
// (claim.*, documents[i].*, query.*). Array indices are not checked against
// data, only that the indexed field is a list.
func KnownField(path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}
	t := contextDocumentType
	for _, seg := range strings.Split(path, ".") {
		name, indexed := seg, false
		if i := strings.IndexByte(seg, '['); i >= 0 {
			if !strings.HasSuffix(seg, "]") {
				return false
			}
			name, indexed = seg[:i], true
		}
		t = deref(t)
		switch t.Kind() {
		case reflect.Map:
			t = t.Elem()
		case reflect.Struct:
			f, ok := jsonField(t, name)
			if !ok {
				return false
			}
			t = f.Type
		default:
			return false
		}
		if indexed {
			t = deref(t)
			if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
				return false
			}
			t = t.Elem()
		}
	}
	return true
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// jsonField finds the field encoded under name, descending into embedded
// structs the way encoding/json does.
func jsonField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == "-" {
			continue
		}
		if f.Anonymous && tag == "" && deref(f.Type).Kind() == reflect.Struct {
			if inner, ok := jsonField(deref(f.Type), name); ok {
				return inner, true
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		if tag == "" {
			tag = f.Name
		}
		if tag == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// Lint reports problems Validate tolerates: page fields that name nothing in
// the context document and pages assigned to a step the claim graph lacks.
func (f Flow) Lint(steps []string) []string {
	known := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		known[s] = struct{}{}
	}
	var problems []string
	for _, p := range f.Pages {
		if p.Step != "" {
			if _, ok := known[p.Step]; !ok {
				problems = append(problems, fmt.Sprintf("%s: unknown step %q", p.Route, p.Step))
			}
		}
		for _, field := range p.Fields {
			if !KnownField(field) {
				problems = append(problems, fmt.Sprintf("%s: unknown field %s", p.Route, field))
			}
		}
	}
	return problems
}

// StepNames lists the steps of the claim graph in flow order.
func StepNames() []string {
	return []string{
		StepVerifyID, StepEmployerInformation, StepLeaveDetails, StepOtherLeave, StepReviewAndConfirm,
		StepPayment, StepTaxWithholding,
		StepUploadID, StepUploadCertification,
	}
}
