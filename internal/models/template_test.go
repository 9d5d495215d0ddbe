package models

import (
	"testing"
)

func TestValidFieldType(t *testing.T) {
	tests := []struct {
		name  string
		tipo  string
		valid bool
	}{
		{name: "Text", tipo: FieldTypeText, valid: true},
		{name: "Integer", tipo: FieldTypeInteger, valid: true},
		{name: "Boolean", tipo: FieldTypeBoolean, valid: true},
		{name: "Long text", tipo: FieldTypeLongText, valid: true},
		{name: "Unknown", tipo: "data", valid: false},
		{name: "Empty", tipo: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidFieldType(tt.tipo); got != tt.valid {
				t.Errorf("ValidFieldType(%q) = %v, want %v", tt.tipo, got, tt.valid)
			}
		})
	}
}

func TestTemplate_BeforeSave(t *testing.T) {
	tmpl := &Template{Name: "   "}
	if err := tmpl.BeforeSave(nil); err == nil {
		t.Error("BeforeSave() expected error for blank name, got nil")
	}

	tmpl.Name = "Aventureiro"
	if err := tmpl.BeforeSave(nil); err != nil {
		t.Errorf("BeforeSave() unexpected error = %v", err)
	}
}

func TestField_BeforeSave(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		wantErr bool
	}{
		{name: "Valid", field: Field{Name: "Força", Type: FieldTypeInteger}},
		{name: "Blank name", field: Field{Name: " ", Type: FieldTypeInteger}, wantErr: true},
		{name: "Bad type", field: Field{Name: "Força", Type: "data"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.field.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTableNames(t *testing.T) {
	if got := (Template{}).TableName(); got != "templates" {
		t.Errorf("Template.TableName() = %q, want %q", got, "templates")
	}
	if got := (Field{}).TableName(); got != "fields" {
		t.Errorf("Field.TableName() = %q, want %q", got, "fields")
	}
	if got := (Character{}).TableName(); got != "characters" {
		t.Errorf("Character.TableName() = %q, want %q", got, "characters")
	}
	if got := (Value{}).TableName(); got != "values" {
		t.Errorf("Value.TableName() = %q, want %q", got, "values")
	}
}
