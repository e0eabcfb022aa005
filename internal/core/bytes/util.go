package bytes

import (
	"bytes"
	"encoding/binary"
	"reflect"
)

// BytesFromStruct serializes the fields of a struct to an array of bytes in the
// order in which the fields are declared, big-endian. Returns the total number
// of bytes converted. Panics if data is not a struct or pointer to struct, or
// if there was an error writing a field.
func BytesFromStruct(data interface{}) ([]byte, int) {
	val := reflect.ValueOf(data)
	valKind := val.Kind()

	if valKind == reflect.Ptr {
		val = reflect.ValueOf(data).Elem()
		valKind = val.Kind()
	}

	if valKind != reflect.Struct {
		panic("BytesFromStruct(): data must of type struct " +
			"or ptr to struct, got: " + valKind.String())
	}

	convertedBytes := new(bytes.Buffer)
	// It's possible to use binary.Write on val.Interface itself, but doing
	// so prevents this function from working with dynamically sized types.
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)

		var err error
		switch kind := field.Kind(); kind {
		case reflect.Struct, reflect.Ptr:
			b, _ := BytesFromStruct(field.Interface())
			err = binary.Write(convertedBytes, binary.BigEndian, b)
		default:
			err = binary.Write(convertedBytes, binary.BigEndian, field.Interface())
		}
		if err != nil {
			panic(err.Error())
		}
	}
	return convertedBytes.Bytes(), convertedBytes.Len()
}

// StructFromBytes populates the struct pointed to by targetStruct by reading in a
// stream of big-endian bytes and filling the values in sequential order.
func StructFromBytes(data []byte, targetStruct interface{}) {
	targetVal := reflect.ValueOf(targetStruct)

	if valKind := targetVal.Kind(); valKind != reflect.Ptr {
		panic("StructFromBytes(): targetStruct must be a " +
			"ptr to struct, got: " + valKind.String())
	}

	reader := bytes.NewReader(data)
	val := targetVal.Elem()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)

		var err error
		switch field.Kind() {
		case reflect.Ptr:
			err = binary.Read(reader, binary.BigEndian, field.Interface())
		default:
			err = binary.Read(reader, binary.BigEndian, field.Addr().Interface())
		}
		if err != nil {
			panic(err.Error())
		}
	}
}

// StructSize returns the number of bytes BytesFromStruct will produce for
// a struct or pointer to struct.
func StructSize(data interface{}) int {
	_, size := BytesFromStruct(data)
	return size
}
