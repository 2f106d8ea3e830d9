package openai

import (
	oai "github.com/openai/openai-go/v3"

	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/tool"
)

func toParams(messages []provider.Message) []oai.ChatCompletionMessageParamUnion {
	params := make([]oai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case provider.RoleSystem:
			params = append(params, oai.SystemMessage(msg.Content))
		case provider.RoleAssistant:
			params = append(params, assistantParam(msg))
		case provider.RoleTool:
			params = append(params, oai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			params = append(params, oai.UserMessage(msg.Content))
		}
	}
	return params
}

func assistantParam(msg provider.Message) oai.ChatCompletionMessageParamUnion {
	assistant := &oai.ChatCompletionAssistantMessageParam{}
	if msg.Content != "" {
		assistant.Content = oai.ChatCompletionAssistantMessageParamContentUnion{
			OfString: oai.String(msg.Content),
		}
	}
	for _, call := range msg.ToolCalls {
		assistant.ToolCalls = append(assistant.ToolCalls, oai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &oai.ChatCompletionMessageFunctionToolCallParam{
				ID: call.ID,
				Function: oai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      call.Function.Name,
					Arguments: call.Function.Arguments,
				},
			},
		})
	}
	return oai.ChatCompletionMessageParamUnion{OfAssistant: assistant}
}

func toTools(decls []tool.Declaration) []oai.ChatCompletionToolUnionParam {
	if len(decls) == 0 {
		return nil
	}
	tools := make([]oai.ChatCompletionToolUnionParam, 0, len(decls))
	for _, d := range decls {
		fn := oai.FunctionDefinitionParam{
			Name:        d.Name,
			Description: oai.String(d.Description),
		}
		if d.Parameters != nil {
			fn.Parameters = oai.FunctionParameters(d.Parameters.Map())
		}
		tools = append(tools, oai.ChatCompletionToolUnionParam{
			OfFunction: &oai.ChatCompletionFunctionToolParam{Function: fn},
		})
	}
	return tools
}
