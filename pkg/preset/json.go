package preset

import jsoniter "github.com/json-iterator/go"

var jsonMarshal = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze().Marshal
