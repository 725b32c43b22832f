package translate

import "girdoc/internal/symbols"

// Fundamental types are pre-registered per output language and never go
// through the translation table; linking one always succeeds.

const (
	mdnGlobals  = "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/"
	pyFunctions = "https://docs.python.org/3/library/functions.html#"
	pyConstants = "https://docs.python.org/3/library/constants.html#"
)

func jsFundamentals() map[string]symbols.Link {
	str := symbols.Link{Ref: mdnGlobals + "String", Title: "String"}
	num := symbols.Link{Ref: "https://developer.mozilla.org/en-US/docs/Glossary/Number", Title: "Number"}
	obj := symbols.Link{Ref: mdnGlobals + "Object", Title: "Object"}

	return map[string]symbols.Link{
		"gchararray": str,
		"gunichar":   str,
		"utf8":       str,
		"gchar":      str,
		"guchar":     num,
		"gint8":      num,
		"guint8":     num,
		"gint16":     num,
		"guint16":    num,
		"gint32":     num,
		"guint32":    num,
		"gint64":     num,
		"guint64":    num,
		"gshort":     num,
		"gint":       num,
		"guint":      num,
		"glong":      num,
		"gulong":     num,
		"gsize":      num,
		"gssize":     num,
		"gintptr":    num,
		"guintptr":   num,
		"gfloat":     num,
		"gdouble":    num,
		"gboolean":   num,
		"TRUE":       {Ref: mdnGlobals + "Boolean", Title: "true"},
		"FALSE":      {Ref: mdnGlobals + "Boolean", Title: "false"},
		"gpointer":   obj,
		"NULL":       {Ref: mdnGlobals + "null", Title: "null"},
	}
}

func pyFundamentals() map[string]symbols.Link {
	str := symbols.Link{Ref: pyFunctions + "str", Title: "str"}
	boolean := symbols.Link{Ref: pyFunctions + "bool", Title: "bool"}
	integer := symbols.Link{Ref: pyFunctions + "int", Title: "int"}
	float := symbols.Link{Ref: pyFunctions + "float", Title: "float"}
	obj := symbols.Link{Ref: pyFunctions + "object", Title: "object"}
	none := symbols.Link{Ref: pyConstants + "None", Title: "None"}
	gtype := symbols.Link{
		Ref:   "https://developer.gnome.org/gobject/stable/gobject-Type-Information.html#GType",
		Title: "GObject.Type",
	}
	gvariant := symbols.Link{
		Ref:   "https://developer.gnome.org/glib/stable/glib-GVariant.html",
		Title: "GLib.Variant",
	}

	return map[string]symbols.Link{
		"none":               none,
		"gpointer":           obj,
		"gconstpointer":      obj,
		"gboolean":           boolean,
		"gint8":              integer,
		"guint8":             integer,
		"gint16":             integer,
		"guint16":            integer,
		"gint32":             integer,
		"guint32":            integer,
		"gchar":              integer,
		"guchar":             integer,
		"gshort":             integer,
		"gushort":            integer,
		"gint":               integer,
		"guint":              integer,
		"gfloat":             float,
		"gdouble":            float,
		"utf8":               str,
		"gunichar":           str,
		"filename":           str,
		"gchararray":         str,
		"GType":              gtype,
		"GVariant":           gvariant,
		"gsize":              integer,
		"gssize":             integer,
		"goffset":            integer,
		"gintptr":            integer,
		"guintptr":           integer,
		"glong":              integer,
		"gulong":             integer,
		"gint64":             integer,
		"guint64":            integer,
		"long double":        float,
		"long long":          integer,
		"unsigned long long": integer,
		"TRUE":               {Ref: pyConstants + "True", Title: "True"},
		"FALSE":              {Ref: pyConstants + "False", Title: "False"},
		"NULL":               none,
	}
}

// Fundamentals maps each output language to its built-in types. C has
// none: every C name resolves through the regular link machinery.
var Fundamentals = map[Language]map[string]symbols.Link{
	C:          {},
	Python:     pyFundamentals(),
	JavaScript: jsFundamentals(),
}
