package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

// Test Plan for PHP Parser:
// - a minimal class yields "no parent class", "no interfaces" and "no traits"
// - extends, implements and trait use produce positive statements
// - several trait use clauses are merged into one statement
// - free functions and methods are separated
// - top-level use imports are de-duplicated, aliases ignored, group uses expanded
// - top-level $variable assignments are module bindings, locals are not
// - braced namespace bodies count as top level

func TestPhpParser_MinimalClass(t *testing.T) {
	t.Parallel()

	rec := NewPhpParser().Extract([]byte("<?php\nclass Foo {}\n"))

	assert.Equal(t, []string{"Foo"}, rec.TypeDeclarations)
	assert.Equal(t, []extraction.Relationship{
		{Kind: extraction.RelationSuperclass, Text: "Foo has no parent class", Absent: true},
		{Kind: extraction.RelationInterfaces, Text: "Foo implements no interfaces", Absent: true},
		{Kind: extraction.RelationTraits, Text: "Foo uses no traits", Absent: true},
	}, rec.Relationships)
}

func TestPhpParser_ClassRelationships(t *testing.T) {
	t.Parallel()

	src := []byte(`<?php
namespace App\Models;

use App\Contracts\Storable;
use Illuminate\Support\Str as S;
use App\Contracts\Storable;

class User extends Model implements Storable, JsonSerializable {
    use HasFactory;
    use Notifiable, SoftDeletes;

    public function save() {}
    public function jsonSerialize() {}
}

function helper() {
    $local = 1;
}

$config = ['debug' => true];
`)

	rec := NewPhpParser().Extract(src)

	assert.Equal(t, []string{"User"}, rec.TypeDeclarations)
	assert.Equal(t, []string{"save", "jsonSerialize"}, rec.Callables.Methods)
	assert.Equal(t, []string{"helper"}, rec.Callables.Functions)
	assert.Equal(t, []string{`App\Contracts\Storable`, `Illuminate\Support\Str`}, rec.Imports)
	assert.Equal(t, []string{"$config"}, rec.ModuleBindings)

	require.Len(t, rec.Relationships, 3)
	assert.Equal(t, "User extends Model", rec.Relationships[0].Text)
	assert.Equal(t, "User implements Storable, JsonSerializable", rec.Relationships[1].Text)
	assert.Equal(t, "User uses HasFactory, Notifiable, SoftDeletes", rec.Relationships[2].Text)
	for _, rel := range rec.Relationships {
		assert.False(t, rel.Absent)
	}
}

func TestPhpParser_GroupUse(t *testing.T) {
	t.Parallel()

	src := []byte(`<?php
use App\Models\{User, Post};
`)

	rec := NewPhpParser().Extract(src)

	assert.Equal(t, []string{`App\Models\User`, `App\Models\Post`}, rec.Imports)
}

func TestPhpParser_BracedNamespace(t *testing.T) {
	t.Parallel()

	src := []byte(`<?php
namespace Shop {
    use Payments\Gateway;
    $registry = [];
    class Cart {}
}
`)

	rec := NewPhpParser().Extract(src)

	assert.Equal(t, []string{`Payments\Gateway`}, rec.Imports)
	assert.Equal(t, []string{"$registry"}, rec.ModuleBindings)
	assert.Equal(t, []string{"Cart"}, rec.TypeDeclarations)
}

func TestPhpParser_RelationshipsPairWithClasses(t *testing.T) {
	t.Parallel()

	src := []byte(`<?php
class A {}
class B extends A {}
trait Loggable { public function log() {} }
interface Shape { public function area(); }
`)

	rec := NewPhpParser().Extract(src)

	require.Equal(t, []string{"A", "B"}, rec.TypeDeclarations)
	for _, kind := range []extraction.RelationKind{extraction.RelationSuperclass, extraction.RelationInterfaces, extraction.RelationTraits} {
		assert.Len(t, rec.RelationshipsOf(kind), len(rec.TypeDeclarations), "kind %s", kind)
	}
	assert.Equal(t, []string{"log", "area"}, rec.Callables.Methods)
}
