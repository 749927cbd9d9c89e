package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var (
	chatMode         string
	chatConversation string
	chatJSON         bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask a single question",
	Long: `Sends one message and prints the answer.

In document mode the answer is grounded in the ingested collection and
cites its sources. Use --conversation to continue an earlier exchange,
or run without arguments to start the interactive chat UI.`,
	Args: cobra.ArbitraryArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMode, "mode", "m", "general", "chat mode: general or document")
	chatCmd.Flags().StringVarP(&chatConversation, "conversation", "c", "", "conversation ID to continue")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	if len(args) == 0 {
		return runChatTUI(cmd)
	}

	mode, err := domain.ParseChatMode(chatMode)
	if err != nil {
		return fmt.Errorf("unknown chat mode %q (use general or document)", chatMode)
	}

	result, err := chatService.Chat(cmd.Context(), domain.ChatRequest{
		Message:        strings.Join(args, " "),
		Mode:           mode,
		ConversationID: chatConversation,
	})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if chatJSON {
		return outputChatJSON(cmd, result)
	}
	return outputChatText(cmd, result)
}

func outputChatJSON(cmd *cobra.Command, result *domain.ChatResult) error {
	out := map[string]any{
		"response":        result.Response,
		"mode":            result.Mode.String(),
		"conversation_id": result.ConversationID,
		"processing_time": result.ProcessingTime.Seconds(),
		"metadata": map[string]any{
			"model":          result.Metadata.Model,
			"context_chunks": result.Metadata.ContextChunks,
			"sources":        result.Metadata.Sources,
		},
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputChatText(cmd *cobra.Command, result *domain.ChatResult) error {
	cmd.Println(result.Response)

	if len(result.Metadata.Sources) > 0 {
		cmd.Println()
		cmd.Printf("Sources: %s\n", strings.Join(result.Metadata.Sources, ", "))
	}
	cmd.Printf("(%s, %.1fs, conversation %s)\n",
		result.Mode, result.ProcessingTime.Seconds(), result.ConversationID)
	return nil
}
