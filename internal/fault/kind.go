package fault

// Kind は障害の種類を表す
type Kind int

const (
	KindAny Kind = iota
	KindRuntime
	KindArithmetic
	KindIndexOutOfBounds
	KindNullReference
	KindChecked
	KindIllegalAccess
	KindIO
	KindCustom
)

// parents は各種類の親を保持する。KindAny は根なので含まない
var parents = map[Kind]Kind{
	KindRuntime:          KindAny,
	KindArithmetic:       KindRuntime,
	KindIndexOutOfBounds: KindRuntime,
	KindNullReference:    KindRuntime,
	KindChecked:          KindAny,
	KindIllegalAccess:    KindChecked,
	KindIO:               KindChecked,
	KindCustom:           KindChecked,
}

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "Fault"
	case KindRuntime:
		return "RuntimeFault"
	case KindArithmetic:
		return "ArithmeticFault"
	case KindIndexOutOfBounds:
		return "IndexOutOfBoundsFault"
	case KindNullReference:
		return "NullReferenceFault"
	case KindChecked:
		return "CheckedFault"
	case KindIllegalAccess:
		return "IllegalAccessFault"
	case KindIO:
		return "IOFault"
	case KindCustom:
		return "CustomFault"
	default:
		return "UnknownFault"
	}
}

// Error は Kind を errors.Is のターゲットとして使えるようにする
func (k Kind) Error() string {
	return k.String()
}

// Parent は親の種類を返す。KindAny と未知の種類は KindAny を返す
func (k Kind) Parent() Kind {
	if p, ok := parents[k]; ok {
		return p
	}
	return KindAny
}

// IsA は k が ancestor 自身、またはその子孫であるかを返す
func (k Kind) IsA(ancestor Kind) bool {
	if ancestor == KindAny {
		return true
	}
	for cur := k; ; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
		if cur == KindAny {
			return false
		}
	}
}

// Kinds は定義済みの全種類を宣言順に返す
func Kinds() []Kind {
	return []Kind{
		KindAny, KindRuntime, KindArithmetic, KindIndexOutOfBounds, KindNullReference,
		KindChecked, KindIllegalAccess, KindIO, KindCustom,
	}
}
