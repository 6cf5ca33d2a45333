package utils

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PrettyJson serializa o valor com indentação; []byte é reindentado
func PrettyJson(in any) string {
	if raw, ok := in.([]byte); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			fmt.Println(err)
			return string(raw)
		}
		in = decoded
	}

	out, err := json.MarshalIndent(in, "", "\t")
	if err != nil {
		fmt.Println(err)
		return ""
	}

	return string(out)
}
