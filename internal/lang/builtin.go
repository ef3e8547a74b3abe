package lang

// builtinLanguages is the static language table. NewRegistry copies entries
// out of it, so it stays untouched for the life of the process.
//
// The "\n" ender stands for a line break; it is only honored when the line
// is not continued (see LineContinuation).
var builtinLanguages = []Descriptor{
	{
		Name:       "Text File",
		Extensions: []string{"txt"},
		// No comment symbols: the whole file is documentation.
		Strategy: StrategySimple,
	},
	{
		Name:           "C/C++",
		Extensions:     []string{"c", "cpp", "cc", "cxx", "h", "hpp", "hxx"},
		LineComments:   []string{"//"},
		BlockComments:  []CommentPair{{Open: "/*", Close: "*/"}},
		FunctionEnders: []string{";", "{"},
		VariableEnders: []string{";", "="},
		Strategy:       StrategyStatement,
	},
	{
		Name:           "C#",
		Extensions:     []string{"cs"},
		LineComments:   []string{"//", "///"},
		BlockComments:  []CommentPair{{Open: "/*", Close: "*/"}},
		FunctionEnders: []string{";", "{"},
		VariableEnders: []string{";", "="},
		Strategy:       StrategyStatement,
	},
	{
		Name:           "Java",
		Extensions:     []string{"java"},
		LineComments:   []string{"//"},
		BlockComments:  []CommentPair{{Open: "/*", Close: "*/"}},
		FunctionEnders: []string{";", "{"},
		VariableEnders: []string{";", "="},
		Strategy:       StrategyStatement,
	},
	{
		Name:           "JavaScript",
		Extensions:     []string{"js", "jsx", "mjs"},
		Shebangs:       []string{"node"},
		LineComments:   []string{"//"},
		BlockComments:  []CommentPair{{Open: "/*", Close: "*/"}},
		FunctionEnders: []string{";", "{"},
		VariableEnders: []string{";", "=", "\n"},
		Strategy:       StrategyStatement,
	},
	{
		Name:           "ActionScript",
		Extensions:     []string{"as"},
		LineComments:   []string{"//"},
		BlockComments:  []CommentPair{{Open: "/*", Close: "*/"}},
		FunctionEnders: []string{";", "{"},
		VariableEnders: []string{";", "="},
		Strategy:       StrategyStatement,
	},
	{
		Name:           "PHP",
		Extensions:     []string{"php", "php3", "php4", "phtml"},
		LineComments:   []string{"//", "#"},
		BlockComments:  []CommentPair{{Open: "/*", Close: "*/"}},
		FunctionEnders: []string{";", "{"},
		VariableEnders: []string{";", "="},
		Strategy:       StrategyStatement,
	},
	{
		Name:             "Perl",
		Extensions:       []string{"pl", "pm"},
		Shebangs:         []string{"perl"},
		LineComments:     []string{"#"},
		FunctionEnders:   []string{";", "{"},
		VariableEnders:   []string{";", "="},
		LineContinuation: "\\",
		Strategy:         StrategySimple,
	},
	{
		Name:             "Python",
		Extensions:       []string{"py"},
		Shebangs:         []string{"python"},
		LineComments:     []string{"#"},
		FunctionEnders:   []string{":"},
		VariableEnders:   []string{"=", "\n"},
		LineContinuation: "\\",
		Strategy:         StrategySimple,
	},
	{
		Name:           "Ruby",
		Extensions:     []string{"rb"},
		Shebangs:       []string{"ruby"},
		LineComments:   []string{"#"},
		BlockComments:  []CommentPair{{Open: "=begin", Close: "=end"}},
		FunctionEnders: []string{"\n"},
		VariableEnders: []string{"=", "\n"},
		Strategy:       StrategySimple,
	},
	{
		Name:           "Pascal",
		Extensions:     []string{"pas", "pp", "dpr"},
		LineComments:   []string{"//"},
		BlockComments:  []CommentPair{{Open: "{", Close: "}"}, {Open: "(*", Close: "*)"}},
		FunctionEnders: []string{";"},
		VariableEnders: []string{";", "="},
		FalsePositives: FalsePositiveSemicolonsInParens,
		Directives: []Directive{
			{Keyword: "virtual"}, {Keyword: "abstract"}, {Keyword: "override"},
			{Keyword: "overload"}, {Keyword: "reintroduce"}, {Keyword: "cdecl"},
			{Keyword: "stdcall"}, {Keyword: "register"}, {Keyword: "dynamic"},
			{Keyword: "message", TakesClause: true},
			{Keyword: "external", TakesClause: true},
		},
		Strategy: StrategySimple,
	},
	{
		Name:             "Visual Basic",
		Extensions:       []string{"vb", "vbs", "bas", "cls", "frm"},
		LineComments:     []string{"'"},
		FunctionEnders:   []string{"\n"},
		VariableEnders:   []string{"\n"},
		LineContinuation: "_",
		Strategy:         StrategySimple,
	},
	{
		Name:           "SQL",
		Extensions:     []string{"sql", "pks", "pkb"},
		LineComments:   []string{"--"},
		BlockComments:  []CommentPair{{Open: "/*", Close: "*/"}},
		FunctionEnders: []string{",", ";", ")", "as", "is"},
		VariableEnders: []string{",", ";", ")"},
		FalsePositives: FalsePositiveSigilKeyword,
		Strategy:       StrategySimple,
	},
	{
		Name:           "Tcl",
		Extensions:     []string{"tcl"},
		Shebangs:       []string{"tclsh", "wish"},
		LineComments:   []string{"#"},
		FunctionEnders: []string{"{"},
		VariableEnders: []string{"\n"},
		FalsePositives: FalsePositiveBraceNesting,
		Strategy:       StrategySimple,
	},
	{
		Name:             "Shell Script",
		Extensions:       []string{"sh", "bash", "zsh"},
		Shebangs:         []string{"sh", "bash", "zsh", "ksh"},
		LineComments:     []string{"#"},
		FunctionEnders:   []string{"{"},
		VariableEnders:   []string{"=", "\n"},
		LineContinuation: "\\",
		Strategy:         StrategySimple,
	},
	{
		Name:             "Fortran",
		Extensions:       []string{"f", "f77", "f90", "f95"},
		LineComments:     []string{"!"},
		FunctionEnders:   []string{"\n"},
		VariableEnders:   []string{"\n"},
		LineContinuation: "&",
		Strategy:         StrategySimple,
	},
	{
		Name:           "Ada",
		Extensions:     []string{"ada", "ads", "adb"},
		LineComments:   []string{"--"},
		FunctionEnders: []string{";", "is"},
		VariableEnders: []string{";"},
		FalsePositives: FalsePositiveSemicolonsInParens,
		Strategy:       StrategySimple,
	},
	{
		Name:           "Makefile",
		Extensions:     []string{"mk", "mak"},
		LineComments:   []string{"#"},
		FunctionEnders: []string{"\n"},
		VariableEnders: []string{"\n", "="},
		// Make targets have no parameter syntax; ":" marks the dependency
		// list, collected as marker-separated parameters.
		ParamsMarker:     ":",
		LineContinuation: "\\",
		Strategy:         StrategySimple,
	},
	{
		Name:             "Lua",
		Extensions:       []string{"lua"},
		Shebangs:         []string{"lua"},
		LineComments:     []string{"--"},
		BlockComments:    []CommentPair{{Open: "--[[", Close: "]]"}},
		FunctionEnders:   []string{"\n", ")"},
		VariableEnders:   []string{"=", "\n"},
		Strategy:         StrategySimple,
	},
}
