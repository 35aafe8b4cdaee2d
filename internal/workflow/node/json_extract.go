// Package node 实现生成链路中的无状态处理节点
package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ExtractionFailure 响应中没有可解析的结构化内容
type ExtractionFailure struct {
	Reason string
	// Attempted 修复后尝试解析的文本，未找到候选区域时为空
	Attempted string
	Err       error
	// Offset 解析失败的字节偏移，未知时为 -1
	Offset int64
}

// Error 实现 error 接口
func (f *ExtractionFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Reason, f.Err)
	}
	return f.Reason
}

// Unwrap 返回底层错误
func (f *ExtractionFailure) Unwrap() error {
	return f.Err
}

// ExtractResult 提取结果，Payload 与 Failure 二者恰有其一
type ExtractResult struct {
	Payload *RawPayload
	Failure *ExtractionFailure
	// FullResponse 原始完整响应，无论成功与否都保留
	FullResponse string
}

// OK 是否成功解析
func (r ExtractResult) OK() bool {
	return r.Payload != nil
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Extract 从模型输出中提取结构化载荷
// 选取最长的平衡花括号区域，修复尾逗号与裸换行后解析
// 两处修复会同样作用于字符串内容，属于已知的有损处理
func Extract(rawText string) ExtractResult {
	res := ExtractResult{FullResponse: rawText}

	region, ok := LongestBalancedObject(rawText)
	if !ok {
		res.Failure = &ExtractionFailure{Reason: "no JSON object found", Offset: -1}
		return res
	}

	attempted := RepairJSON(region)

	var payload RawPayload
	if err := json.Unmarshal([]byte(attempted), &payload); err != nil {
		res.Failure = &ExtractionFailure{
			Reason:    "invalid JSON",
			Attempted: attempted,
			Err:       err,
			Offset:    errorOffset(err),
		}
		return res
	}

	res.Payload = &payload
	return res
}

// RepairJSON 依次移除尾逗号并将换行折叠为空格
func RepairJSON(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	return newlineReplacer.Replace(s)
}

// LongestBalancedObject 返回最长的平衡花括号区域
// 扫描时识别字符串字面量，字符串内的花括号不计入深度
func LongestBalancedObject(s string) (string, bool) {
	bestStart, bestEnd := -1, -1
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		end := matchBrace(s, i)
		if end < 0 {
			continue
		}
		if end-i > bestEnd-bestStart {
			bestStart, bestEnd = i, end
		}
	}
	if bestStart < 0 {
		return "", false
	}
	return s[bestStart : bestEnd+1], true
}

// matchBrace 返回与 start 处 '{' 配对的 '}' 下标，未闭合时返回 -1
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func errorOffset(err error) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Offset
	}
	return -1
}
