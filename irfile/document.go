package irfile

// document is the YAML form of an ir.Module.
type document struct {
	Types       []typeDoc       `yaml:"types"`
	Constants   []constantDoc   `yaml:"constants"`
	Globals     []globalDoc     `yaml:"globals"`
	Functions   []functionDoc   `yaml:"functions"`
	EntryPoints []entryPointDoc `yaml:"entry_points"`
}

type typeDoc struct {
	Name    string      `yaml:"name"`
	Void    bool        `yaml:"void"`
	Scalar  string      `yaml:"scalar"`
	Vector  *vectorDoc  `yaml:"vector"`
	Matrix  *matrixDoc  `yaml:"matrix"`
	Array   *arrayDoc   `yaml:"array"`
	Struct  *structDoc  `yaml:"struct"`
	Pointer *pointerDoc `yaml:"pointer"`
	Buffer  *bufferDoc  `yaml:"buffer"`
	Sampler *samplerDoc `yaml:"sampler"`
	Atomic  string      `yaml:"atomic"`
}

type vectorDoc struct {
	Size   uint8  `yaml:"size"`
	Scalar string `yaml:"scalar"`
}

type matrixDoc struct {
	Columns uint8  `yaml:"columns"`
	Rows    uint8  `yaml:"rows"`
	Scalar  string `yaml:"scalar"`
}

type arrayDoc struct {
	Base   uint32  `yaml:"base"`
	Size   *uint32 `yaml:"size"`
	Stride uint32  `yaml:"stride"`
}

type structDoc struct {
	Members []memberDoc `yaml:"members"`
	Layout  *layoutDoc  `yaml:"layout"`
}

type layoutDoc struct {
	Size      uint64 `yaml:"size"`
	Alignment uint64 `yaml:"alignment"`
}

type memberDoc struct {
	Name       string `yaml:"name"`
	Type       uint32 `yaml:"type"`
	Offset     uint32 `yaml:"offset"`
	bindingDoc `yaml:",inline"`
}

// bindingDoc is inlined into members, arguments and results.
type bindingDoc struct {
	Builtin       string            `yaml:"builtin"`
	Location      *uint32           `yaml:"location"`
	LocationSpace uint32            `yaml:"location_space"`
	Interpolation *interpolationDoc `yaml:"interpolation"`
}

type interpolationDoc struct {
	Kind     string `yaml:"kind"`
	Sampling string `yaml:"sampling"`
}

type pointerDoc struct {
	Base   uint32 `yaml:"base"`
	Space  string `yaml:"space"`
	Flavor string `yaml:"flavor"`
}

type bufferDoc struct {
	Base      uint32 `yaml:"base"`
	ReadWrite bool   `yaml:"read_write"`
}

type samplerDoc struct {
	Comparison bool `yaml:"comparison"`
}

type constantDoc struct {
	Name      string   `yaml:"name"`
	Type      uint32   `yaml:"type"`
	Kind      string   `yaml:"kind"`
	Value     *string  `yaml:"value"`
	Bits      *uint64  `yaml:"bits"`
	Composite []uint32 `yaml:"composite"`
}

type globalDoc struct {
	Name   string      `yaml:"name"`
	Space  string      `yaml:"space"`
	Type   uint32      `yaml:"type"`
	Init   *uint32     `yaml:"init"`
	Layout []offsetDoc `yaml:"layout"`
}

type offsetDoc struct {
	Kind   string `yaml:"kind"`
	Offset uint32 `yaml:"offset"`
	Space  uint32 `yaml:"space"`
}

type functionDoc struct {
	Name        string        `yaml:"name"`
	Arguments   []argumentDoc `yaml:"arguments"`
	Result      *resultDoc    `yaml:"result"`
	Locals      []localDoc    `yaml:"locals"`
	Expressions []exprDoc     `yaml:"expressions"`
	Body        []stmtDoc     `yaml:"body"`
}

type argumentDoc struct {
	Name       string `yaml:"name"`
	Type       uint32 `yaml:"type"`
	bindingDoc `yaml:",inline"`
}

type resultDoc struct {
	Type       uint32 `yaml:"type"`
	bindingDoc `yaml:",inline"`
}

type localDoc struct {
	Name string  `yaml:"name"`
	Type uint32  `yaml:"type"`
	Init *uint32 `yaml:"init"`
}

type entryPointDoc struct {
	Name      string   `yaml:"name"`
	Stage     string   `yaml:"stage"`
	Function  uint32   `yaml:"function"`
	Workgroup []uint32 `yaml:"workgroup"`
}

// exprDoc holds exactly one expression kind.
type exprDoc struct {
	Literal     *literalDoc    `yaml:"literal"`
	Constant    *uint32        `yaml:"constant"`
	Zero        *uint32        `yaml:"zero"`
	Argument    *uint32        `yaml:"argument"`
	Global      *uint32        `yaml:"global"`
	Local       *uint32        `yaml:"local"`
	Compose     *composeDoc    `yaml:"compose"`
	Splat       *splatDoc      `yaml:"splat"`
	ArraySplat  *arraySplatDoc `yaml:"array_splat"`
	Access      *accessDoc     `yaml:"access"`
	AccessIndex *accessDoc     `yaml:"access_index"`
	Swizzle     *swizzleDoc    `yaml:"swizzle"`
	Load        *uint32        `yaml:"load"`
	BufferLoad  *bufferLoadDoc `yaml:"buffer_load"`
	Unary       *unaryDoc      `yaml:"unary"`
	Binary      *binaryDoc     `yaml:"binary"`
	Select      *selectDoc     `yaml:"select"`
	Convert     *castDoc       `yaml:"convert"`
	Bitcast     *castDoc       `yaml:"bitcast"`
	Math        *mathDoc       `yaml:"math"`
	CallResult  *uint32        `yaml:"call_result"`
	ArrayLength *uint32        `yaml:"array_length"`
}

type literalDoc struct {
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

type composeDoc struct {
	Type       uint32   `yaml:"type"`
	Components []uint32 `yaml:"components"`
}

type splatDoc struct {
	Size  uint8  `yaml:"size"`
	Value uint32 `yaml:"value"`
}

type arraySplatDoc struct {
	Type  uint32 `yaml:"type"`
	Value uint32 `yaml:"value"`
}

type accessDoc struct {
	Base  uint32 `yaml:"base"`
	Index uint32 `yaml:"index"`
}

type swizzleDoc struct {
	Vector  uint32 `yaml:"vector"`
	Pattern string `yaml:"pattern"`
}

type bufferLoadDoc struct {
	Buffer uint32 `yaml:"buffer"`
	Index  uint32 `yaml:"index"`
}

type unaryDoc struct {
	Op   string `yaml:"op"`
	Expr uint32 `yaml:"expr"`
}

type binaryDoc struct {
	Op    string `yaml:"op"`
	Left  uint32 `yaml:"left"`
	Right uint32 `yaml:"right"`
}

type selectDoc struct {
	Condition uint32 `yaml:"condition"`
	Accept    uint32 `yaml:"accept"`
	Reject    uint32 `yaml:"reject"`
}

type castDoc struct {
	Expr uint32 `yaml:"expr"`
	Type uint32 `yaml:"type"`
}

type mathDoc struct {
	Fun  string   `yaml:"fun"`
	Args []uint32 `yaml:"args"`
}

// stmtDoc holds exactly one statement kind.
type stmtDoc struct {
	Emit     []uint32   `yaml:"emit"`
	Block    *blockDoc  `yaml:"block"`
	If       *ifDoc     `yaml:"if"`
	Switch   *switchDoc `yaml:"switch"`
	Loop     *loopDoc   `yaml:"loop"`
	Break    bool       `yaml:"break"`
	Continue bool       `yaml:"continue"`
	Return   *returnDoc `yaml:"return"`
	Kill     bool       `yaml:"kill"`
	Barrier  []string   `yaml:"barrier"`
	Store    *storeDoc  `yaml:"store"`
	Call     *callDoc   `yaml:"call"`
}

type blockDoc struct {
	Body []stmtDoc `yaml:"body"`
}

type ifDoc struct {
	Condition uint32    `yaml:"condition"`
	Accept    []stmtDoc `yaml:"accept"`
	Reject    []stmtDoc `yaml:"reject"`
}

type switchDoc struct {
	Selector uint32    `yaml:"selector"`
	Cases    []caseDoc `yaml:"cases"`
}

type caseDoc struct {
	Values  []caseValueDoc `yaml:"values"`
	Default bool           `yaml:"default"`
	Body    []stmtDoc      `yaml:"body"`
}

type caseValueDoc struct {
	I32      *int32  `yaml:"i32"`
	U32      *uint32 `yaml:"u32"`
	Constant *uint32 `yaml:"constant"`
}

type loopDoc struct {
	Body       []stmtDoc `yaml:"body"`
	Continuing []stmtDoc `yaml:"continuing"`
	BreakIf    *uint32   `yaml:"break_if"`
}

type returnDoc struct {
	Value *uint32 `yaml:"value"`
}

type storeDoc struct {
	Pointer uint32 `yaml:"pointer"`
	Value   uint32 `yaml:"value"`
}

type callDoc struct {
	Function  uint32   `yaml:"function"`
	Arguments []uint32 `yaml:"arguments"`
	Result    *uint32  `yaml:"result"`
}
