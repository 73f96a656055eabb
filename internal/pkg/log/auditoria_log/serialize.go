package auditoria_log

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// MaxDataLength limita o tamanho gravado em InputData/OutputData. Pedidos
// carregam anexos em base64 e não devem inflar a tabela de auditoria.
const MaxDataLength = 4096

// SerializeData tenta converter o payload para JSON; se falhar, retorna a
// representação formatada com fmt. O resultado é truncado em MaxDataLength.
func SerializeData(data interface{}) string {
	if data == nil {
		return ""
	}

	var out string
	raw, err := json.Marshal(data)
	if err != nil {
		out = fmt.Sprintf("%+v", data)
	} else {
		out = string(raw)
	}

	return truncate(out, MaxDataLength)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(truncated)"
}
