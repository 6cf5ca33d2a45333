package repository

import (
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fromRecord decodifica o registro na struct usando as tags json e devolve os campos não mapeados
func fromRecord(record store.Record, out any) (map[string]any, error) {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           out,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(map[string]any(record)); err != nil {
		return nil, err
	}

	extra := make(map[string]any, len(md.Unused))
	for _, key := range md.Unused {
		if v, ok := record[key]; ok {
			extra[key] = v
		}
	}
	return extra, nil
}

// fromRecordLenient tenta o registro inteiro e, se falhar, decodifica campo a campo:
// os campos válidos vão para out e os inválidos voltam intactos em invalid
func fromRecordLenient(record store.Record, out any) (extra, invalid map[string]any, err error) {
	extra, err = fromRecord(record, out)
	if err == nil {
		return extra, nil, nil
	}

	target := reflect.ValueOf(out).Elem()
	valid := store.Record{}
	invalid = map[string]any{}
	for key, value := range record {
		scratch := reflect.New(target.Type()).Interface()
		if _, err := fromRecord(store.Record{key: value}, scratch); err != nil {
			invalid[key] = value
			continue
		}
		valid[key] = value
	}

	target.Set(reflect.Zero(target.Type()))
	extra, err = fromRecord(valid, out)
	if err != nil {
		return nil, nil, err
	}
	return extra, invalid, nil
}

// toRecord serializa a struct pelas tags json; campos extras não sobrescrevem os conhecidos
func toRecord(in any, extra map[string]any) (store.Record, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	record := store.Record{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}

	for k, v := range extra {
		if _, known := record[k]; !known {
			record[k] = v
		}
	}
	return record, nil
}
