package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var durationType = reflect.TypeOf(time.Duration(0))

// bindEnvs registers every mapstructure key of the target struct with viper so that
// AutomaticEnv also applies to keys that are absent from the config file.
func bindEnvs(v *viper.Viper, target interface{}) {
	t := reflect.TypeOf(target)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	walkKeys(t, "", func(key string) {
		_ = v.BindEnv(key)
	})
}

func walkKeys(t reflect.Type, prefix string, fn func(key string)) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if strings.Contains(opts, "squash") {
			walkKeys(field.Type, prefix, fn)
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		ft := field.Type
		if ft.Kind() == reflect.Struct && ft != durationType {
			walkKeys(ft, key, fn)
			continue
		}
		fn(strings.ToLower(key))
	}
}
