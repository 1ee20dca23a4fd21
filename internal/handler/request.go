package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

const (
	maxBodyBytes       = 1 << 20
	maxMultipartMemory = 1 << 20
)

// readFields читает поля тела запроса в виде строк.
// Поддерживаются application/x-www-form-urlencoded, multipart/form-data и application/json;
// отсутствующее поле возвращается пустой строкой
func readFields(w http.ResponseWriter, r *http.Request, names ...string) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	fields := make(map[string]string, len(names))
	switch mediaType {
	case "application/json":
		values, err := decodeJSONFields(r)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			fields[name] = values[name]
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, domain.ValidationError("invalid multipart body")
		}
		for _, name := range names {
			fields[name] = r.PostForm.Get(name)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, domain.ValidationError("invalid form body")
		}
		for _, name := range names {
			fields[name] = r.PostForm.Get(name)
		}
	}
	return fields, nil
}

// decodeJSONFields разбирает JSON-объект; числа и логические значения
// приводятся к строкам так же, как они пришли бы из формы
func decodeJSONFields(r *http.Request) (map[string]string, error) {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, domain.ValidationError("request body too large")
		}
		return nil, domain.ValidationError("invalid JSON body")
	}

	values := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			values[key] = v
		case json.Number:
			values[key] = v.String()
		case bool:
			values[key] = strconv.FormatBool(v)
		default:
			return nil, domain.ValidationError(fmt.Sprintf("field %q must be a string or a number", key))
		}
	}
	return values, nil
}
